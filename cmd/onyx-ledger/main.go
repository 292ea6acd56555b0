package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"

	"github.com/onyxmesh/onyx-ledger/pkg/repo"
)

func main() {
	loadEnvFile()

	app := cli.NewApp()
	app.Name = repo.AppName
	app.Usage = "A single-asset ledger daemon with administrative transfer controls"
	app.Compiled = time.Now()

	// global flags
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "repo",
			Usage: "Work path",
		},
	}

	app.Commands = []*cli.Command{
		configCMD,
		{
			Name:   "start",
			Usage:  "Start a long-running daemon process",
			Action: start,
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Println(err)
	}
}

func loadEnvFile() {
	envFile := os.Getenv("ONYX_LEDGER_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if repo.FileExist(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			fmt.Printf("load env file %s failed: %s\n", envFile, err)
			return
		}
	}
}
