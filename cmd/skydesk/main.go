package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/skydeskhq/skydesk/agent"
	"github.com/skydeskhq/skydesk/config"
	"github.com/skydeskhq/skydesk/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cfg struct {
	config.Config
}
type cli struct {
	cfg cfg
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("namespace", "skydesk", "namespace used in storage")
	cmd.Flags().Int("http-port", 8080, "http port for rest endpoints")
	cmd.Flags().String("storage-impl", "memory", "implementation of underline storage")
	cmd.Flags().String("sqlite-path", "skydesk.db", "path of the airline inventory database")
	cmd.Flags().String("intent-model", "", "anthropic model used for intent classification")
	cmd.Flags().Int("max-steps", 20, "maximum tasks executed in one turn")
	cmd.Flags().Duration("collaborator-timeout", 10*time.Second, "timeout for collaborator calls")
	cmd.Flags().Duration("session-ttl", 30*time.Minute, "idle session eviction time")
	cmd.Flags().Bool("debug", false, "enable debug logging")
	return viper.BindPFlags(cmd.Flags())
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	var err error

	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	viper.SetConfigFile(configFile)

	if err = viper.ReadInConfig(); err != nil {
		// it's ok if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configFile != "" {
			return err
		}
	}

	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.StorageType = config.StorageType(viper.GetString("storage-impl"))
	c.cfg.SqlitePath = viper.GetString("sqlite-path")
	c.cfg.IntentModel = viper.GetString("intent-model")
	c.cfg.MaxStepsPerTurn = viper.GetInt("max-steps")
	c.cfg.CollaboratorTimeout = viper.GetDuration("collaborator-timeout")
	c.cfg.SessionTTL = viper.GetDuration("session-ttl")
	c.cfg.Debug = viper.GetBool("debug")
	return nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	logger.InitLogger(c.cfg.Debug)
	agent, err := agent.New(c.cfg.Config)
	if err != nil {
		return err
	}
	if err := agent.Start(); err != nil {
		return err
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	return agent.Shutdown()
}

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:     "skydesk",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}

	if err := setupFlags(cmd); err != nil {
		log.Fatal(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
