package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/resalelab/carprice/config"
	"github.com/resalelab/carprice/database"
	"github.com/resalelab/carprice/estimator"
	"github.com/resalelab/carprice/logger"
	"github.com/resalelab/carprice/util/random"
	"github.com/resalelab/carprice/web"
)

var envFile string

func initDatabase() error {
	dbConfig, err := config.GetDatabaseConfig()
	if err != nil {
		return err
	}
	if err := dbConfig.EnsureDirectoryExists(); err != nil {
		return err
	}
	return database.InitDB(dbConfig)
}

func startServer() (*web.Server, error) {
	opts, err := web.OptionsFromEnv()
	if err != nil {
		return nil, err
	}
	server := web.NewServer(opts)
	if err := server.Start(); err != nil {
		return nil, err
	}
	return server, nil
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	logger.InitLogger(logger.ParseLevel(config.GetLogLevel()))
	defer logger.CloseLogger()

	// refuse to start without a usable signing key
	if _, err := config.GetSecretKey(); err != nil {
		log.Fatal(err)
	}

	if err := initDatabase(); err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close database: ", err)
		}
	}()

	if err := estimator.Init(config.GetModelPath()); err != nil {
		logger.Error("model not loaded, predictions are disabled: ", err)
	}
	defer estimator.Close()

	server, err := startServer()
	if err != nil {
		logger.Error("start server: ", err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("reloading web server")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err: ", err)
			}
			server, err = startServer()
			if err != nil {
				logger.Error("restart server: ", err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err: ", err)
			}
			return
		}
	}
}

func migrateDb() {
	if err := initDatabase(); err != nil {
		log.Fatal(err)
	}
	defer database.CloseDB()
	fmt.Println("database schema is up to date")
}

func checkModel(path string) error {
	if path == "" {
		path = config.GetModelPath()
	}
	loaded, err := estimator.Load(path)
	if err != nil {
		return err
	}
	fmt.Printf("model %s (%s) loaded from %s, reference year %d\n",
		loaded.Version, loaded.Kind, path, loaded.ReferenceYear)
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "carprice",
		Short: "Used car resale price prediction web app",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadEnvFile(envFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading settings")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Run: func(cmd *cobra.Command, args []string) {
			migrateDb()
		},
	}

	checkModelCmd := &cobra.Command{
		Use:   "check-model",
		Short: "Validate a model artifact without starting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("path")
			return checkModel(path)
		},
	}
	checkModelCmd.Flags().String("path", "", "model artifact path (default MODEL_PATH)")

	genSecretCmd := &cobra.Command{
		Use:   "gen-secret",
		Short: "Print a random value suitable for SECRET_KEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			length, _ := cmd.Flags().GetInt("length")
			if length < config.MinSecretLength {
				return fmt.Errorf("length must be at least %d", config.MinSecretLength)
			}
			secret, err := random.Secret(length)
			if err != nil {
				return err
			}
			fmt.Println(secret)
			return nil
		},
	}
	genSecretCmd.Flags().Int("length", 48, "secret length")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.GetVersion())
		},
	}

	rootCmd.AddCommand(runCmd, migrateCmd, checkModelCmd, genSecretCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
