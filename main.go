package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alexanderthegreat96/mongo-cdc-seeder/api"
	"github.com/alexanderthegreat96/mongo-cdc-seeder/config"
	"github.com/alexanderthegreat96/mongo-cdc-seeder/driver"
	"github.com/alexanderthegreat96/mongo-cdc-seeder/generator"
	"github.com/alexanderthegreat96/mongo-cdc-seeder/seeder"
	"github.com/common-nighthawk/go-figure"
	"github.com/davecgh/go-spew/spew"
	"github.com/gin-gonic/gin"
)

const versionNumber = "v1.0"

var (
	configFile string
	modeFlag   string
	seedValue  int64
	dryRun     bool
	serve      bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "YAML config file (overrides .env and environment)")
	flag.StringVar(&modeFlag, "mode", "", "What to do: 1-5 or users, orders, both, bulk, stats (default: ask)")
	flag.Int64Var(&seedValue, "seed", 0, "Random seed for reproducible data (0: time based)")
	flag.BoolVar(&dryRun, "dry-run", false, "Print the generated documents instead of writing them")
	flag.BoolVar(&serve, "serve", false, "Start the HTTP API instead of running once")
}

func main() {
	flag.Parse()

	logger := log.New(os.Stdout, "[CDC-SEEDER]: ", log.Ldate|log.Ltime)

	figure.NewColorFigure("CDC Seeder "+versionNumber, "", "blue", false).Print()

	cfg, err := config.Load(configFile)
	if err != nil {
		logger.Fatalf("Error loading configuration: %s", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatalf("Error: %s", err)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	var opts []generator.Option
	if seedValue != 0 {
		opts = append(opts, generator.WithSeed(seedValue))
	}
	gen := generator.New(opts...)

	store := driver.MongoDB(cfg.Mongo)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			logger.Printf("Closing MongoDB connection: %s", err)
		}
	}()

	s := seeder.New(store, gen, cfg)

	if dryRun {
		mode, err := chooseMode(s, os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		batch, err := s.Plan(mode)
		if err != nil {
			return err
		}
		spew.Fdump(os.Stdout, batch)
		return nil
	}

	if serve {
		gin.SetMode(gin.ReleaseMode)
		logger.Printf("MongoDB: %s/%s", cfg.Mongo.URI(), cfg.Mongo.Database)
		logger.Println("You may start sending requests to: http://" + cfg.API.Address() + "/api/data")
		return api.NewServer(s, store, cfg.Mongo.Database).Run(cfg.API.Address())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := store.Ping(ctx); err != nil {
		return err
	}
	logger.Printf("Connected to MongoDB at %s:%s", cfg.Mongo.Host, cfg.Mongo.Port)

	if err := printStats(ctx, s, cfg.Seed.Recent); err != nil {
		return err
	}

	mode, err := chooseMode(s, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Println("Invalid choice. Exiting.")
		return nil
	}

	if _, err := s.Run(ctx, mode); err != nil {
		return err
	}
	if mode != seeder.ModeStats {
		if err := printStats(ctx, s, cfg.Seed.Recent); err != nil {
			return err
		}
	}

	fmt.Println("\nTest data generation completed!")
	fmt.Println("Check your Kafka consumer to see the change events!")
	return nil
}

// chooseMode uses -mode when given and otherwise shows the numbered menu.
func chooseMode(s *seeder.Seeder, in io.Reader, out io.Writer) (seeder.Mode, error) {
	if modeFlag != "" {
		return seeder.ParseMode(modeFlag)
	}

	fmt.Fprintln(out, "\nWhat would you like to do?")
	for _, m := range seeder.Modes() {
		fmt.Fprintf(out, "%d. %s\n", int(m), s.Describe(m))
	}
	fmt.Fprint(out, "\nEnter your choice (1-5): ")

	choice, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, err
	}
	return seeder.ParseMode(strings.TrimSpace(choice))
}

func printStats(ctx context.Context, s *seeder.Seeder, recent int) error {
	stats, err := s.Stats(ctx, recent)
	if err != nil {
		return err
	}
	fmt.Println()
	seeder.PrintStats(os.Stdout, stats)
	return nil
}
