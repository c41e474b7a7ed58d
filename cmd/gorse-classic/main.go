// Copyright 2020 gorse Project Authors
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
	"os"
	"os/signal"

	"github.com/gorse-io/classic/base"
	"github.com/gorse-io/classic/base/log"
	"github.com/gorse-io/classic/config"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds state shared by the commands of one invocation.
type app struct {
	conf *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}
	rootCommand := &cobra.Command{
		Use:           "gorse-classic",
		Short:         "Classic recommenders: association rules, content-based, collaborative filtering and SVD.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	rootCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	rootCommand.PersistentFlags().IntP("jobs", "j", 0, "number of jobs, overrides runtime.jobs")
	rootCommand.AddCommand(
		a.newRulesCommand(),
		a.newRecommendRulesCommand(),
		a.newItemBasedCommand(),
		a.newUserBasedCommand(),
		a.newContentCommand(),
		a.newHybridCommand(),
		a.newSVDCommand(),
	)
	return rootCommand
}

func (a *app) setup(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return errors.Trace(err)
	}
	if cmd.Flags().Changed("jobs") {
		conf.Runtime.Jobs, _ = cmd.Flags().GetInt("jobs")
		if err = conf.Validate(); err != nil {
			return errors.Trace(err)
		}
	}
	debug, _ := cmd.Flags().GetBool("debug")
	log.SetLogger(cmd.Flags(), debug || conf.Runtime.Verbose)
	log.Logger().Debug("load config", zap.String("config", configPath), zap.Any("runtime", conf.Runtime))
	a.conf = conf
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		if base.IsUnknownEntity(err) {
			log.Logger().Error("unknown query entity", zap.Error(err))
			os.Exit(2)
		}
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
