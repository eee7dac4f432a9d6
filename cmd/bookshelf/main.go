/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/botobag/bookshelf/server"
	"github.com/botobag/bookshelf/store"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var conf = viper.New()

// rootCmd starts the GraphQL server.
var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "GraphQL API over an in-memory set of authors and books",
	Long: `
bookshelf serves a GraphQL API at /graphql to list, look up and add authors and
books. Records live in memory only and are reseeded on every start.
`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer glog.Flush()
		return run(configFrom(conf))
	},
}

func init() {
	defaults := server.DefaultConfig()

	flags := rootCmd.Flags()
	flags.String("config", "",
		"Configuration file. Takes precedence over default values, but is overridden by flags.")
	flags.Int("port", defaults.Port, "Port to listen on.")
	flags.Bool("graphiql", defaults.GraphiQL, "Serve the GraphiQL explorer at /graphql for browsers.")
	flags.Uint("max_body_size", defaults.MaxBodySize, "Maximum size in bytes of a request body.")
	flags.Int64("operation_cache_size", defaults.OperationCacheSize,
		"Number of parsed queries to keep in cache.")
	flags.Duration("shutdown_timeout", defaults.ShutdownTimeout,
		"Time allowed for in-flight requests to complete on shutdown.")
	if err := conf.BindPFlags(flags); err != nil {
		panic(err)
	}

	// glog registers its flags (-v, -logtostderr, ...) on the standard flag set.
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	cobra.OnInitialize(func() {
		cfg := conf.GetString("config")
		if cfg == "" {
			return
		}
		conf.SetConfigFile(cfg)
		if err := conf.ReadInConfig(); err != nil {
			glog.Fatalf("Unable to read config file %s: %v", cfg, err)
		}
	})
}

// configFrom reads server settings from v.
func configFrom(v *viper.Viper) server.Config {
	return server.Config{
		Port:               v.GetInt("port"),
		GraphiQL:           v.GetBool("graphiql"),
		MaxBodySize:        v.GetUint("max_body_size"),
		OperationCacheSize: v.GetInt64("operation_cache_size"),
		ShutdownTimeout:    v.GetDuration("shutdown_timeout"),
	}
}

func run(config server.Config) error {
	s, err := store.NewSeeded()
	if err != nil {
		return errors.Wrap(err, "seed store")
	}
	glog.Infof("Loaded %d authors and %d books", s.NumAuthors(), s.NumBooks())

	srv, err := server.New(config, s)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

func main() {
	// Flags are parsed by cobra; mark the standard set parsed so glog doesn't complain.
	if err := goflag.CommandLine.Parse([]string{}); err != nil {
		panic(err)
	}
	// Log to stderr unless asked otherwise.
	if err := goflag.Set("logtostderr", "true"); err != nil {
		panic(err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
