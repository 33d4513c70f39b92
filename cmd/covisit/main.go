// Copyright 2025 covisit Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/covisit/covisit/base/log"
	"github.com/covisit/covisit/cmd/version"
	"github.com/covisit/covisit/config"
	"github.com/covisit/covisit/dataset"
	"github.com/covisit/covisit/logics"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCommand = &cobra.Command{
	Use:   "covisit INTERACTIONS.csv",
	Short: "Item-to-item collaborative filtering over interaction logs.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}

		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		// load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.String("config", configPath), zap.Error(err))
		}
		if cmd.PersistentFlags().Changed("user-column") {
			conf.Data.UserColumn, _ = cmd.PersistentFlags().GetString("user-column")
		}
		if cmd.PersistentFlags().Changed("item-column") {
			conf.Data.ItemColumn, _ = cmd.PersistentFlags().GetString("item-column")
		}
		if cmd.PersistentFlags().Changed("jobs") {
			conf.Recommend.Jobs, _ = cmd.PersistentFlags().GetInt("jobs")
		}
		if cmd.PersistentFlags().Changed("top-n") {
			conf.Recommend.TopN, _ = cmd.PersistentFlags().GetInt("top-n")
		}
		if err = conf.Validate(); err != nil {
			log.Logger().Fatal("invalid config", zap.Error(err))
		}

		// load interactions
		interactions, err := loadInteractions(args[0], conf)
		if err != nil {
			log.Logger().Fatal("failed to load interactions",
				zap.String("path", args[0]), zap.Error(err))
		}
		log.Logger().Info("loaded interactions",
			zap.String("path", args[0]),
			zap.Int("interactions", interactions.Count()))

		// fit recommendations
		anchor, _ := cmd.PersistentFlags().GetString("item")
		fitConfig := logics.NewFitConfig().SetJobs(conf.Recommend.Jobs).SetItem(anchor)
		scores, err := logics.NewItemToItem().Fit(context.Background(), interactions, fitConfig)
		if err != nil {
			log.Logger().Fatal("failed to fit recommendations", zap.Error(err))
		}
		log.Logger().Info("fitted recommendations", zap.Int("pairs", len(scores)))

		// write scored table
		output, _ := cmd.PersistentFlags().GetString("output")
		if output != "" {
			if err = writeScores(output, scores); err != nil {
				log.Logger().Fatal("failed to write scores", zap.String("output", output), zap.Error(err))
			}
		} else {
			printScores(scores)
		}

		// print recommendations for the anchor item
		if anchor != "" {
			recommended := logics.Recommend(scores, anchor, conf.Recommend.TopN)
			fmt.Printf("recommended for %s: %v\n", anchor, recommended)
		}
	},
}

func loadInteractions(path string, conf *config.Config) (*dataset.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	stat, err := file.Stat()
	if err != nil {
		return nil, errors.Trace(err)
	}
	reader := progressbar.NewReader(file, progressbar.DefaultBytes(stat.Size(), "load interactions"))
	return dataset.ReadCSV(&reader, conf.Data.UserColumn, conf.Data.ItemColumn)
}

func scoreRow(score logics.Score) []string {
	return []string{
		score.ItemId,
		score.RecommendedId,
		strconv.Itoa(score.CommonUsers),
		strconv.FormatFloat(score.ExpectedUsers, 'g', -1, 64),
		strconv.FormatFloat(score.Score, 'g', -1, 64),
	}
}

func printScores(scores []logics.Score) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Item", "Recommended Item", "Common Users", "Expected Common Users", "Score"})
	for _, row := range lo.Map(scores, func(score logics.Score, _ int) []string {
		return scoreRow(score)
	}) {
		table.Append(row)
	}
	table.Render()
}

func writeScores(path string, scores []logics.Score) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	if err = writer.Write([]string{"item", "recommended_item", "count_common_users", "expected_common_users", "score"}); err != nil {
		return errors.Trace(err)
	}
	for _, score := range scores {
		if err = writer.Write(scoreRow(score)); err != nil {
			return errors.Trace(err)
		}
	}
	writer.Flush()
	return errors.Trace(writer.Error())
}

func init() {
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	rootCommand.PersistentFlags().BoolP("version", "v", false, "covisit version")
	rootCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	rootCommand.PersistentFlags().String("user-column", dataset.DefaultUserColumn, "name of the user id column")
	rootCommand.PersistentFlags().String("item-column", dataset.DefaultItemColumn, "name of the item id column")
	rootCommand.PersistentFlags().String("item", "", "score pairs anchored at this item only")
	rootCommand.PersistentFlags().Int("jobs", 2, "degree of parallelism for pair scoring")
	rootCommand.PersistentFlags().Int("top-n", 10, "number of recommendations per item")
	rootCommand.PersistentFlags().StringP("output", "o", "", "write the scored table to a CSV file")
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
