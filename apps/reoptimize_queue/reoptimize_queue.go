package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/qrpstudio/media-services/models/common"
	"github.com/qrpstudio/media-services/util/cli"
	"github.com/qrpstudio/media-services/workers"
)

func main() {
	help := false
	flag.BoolVar(&help, "help", false, "Print help message")
	flag.Parse()

	if help {
		printHelp()
		os.Exit(0)
	}

	appContext := common.NewContext()
	queue := workers.NewReoptimizeQueue(appContext)
	queued, err := queue.RunOnce(context.Background())
	if err != nil {
		appContext.Logger.Errorf("Scan failed: %v", err)
		os.Exit(1)
	}
	fmt.Printf("Queued %d photos for reoptimization\n", queued)
}

func printHelp() {
	message := `
reoptimize_queue scans the record store for photos that have a full-size
URL but no thumbnail rendition and queues their IDs in NSQ, where the
media_optimizer worker regenerates their renditions. Run it once after
deploying the rendition pipeline, or on a cron to catch stragglers.`
	fmt.Println(message)
	fmt.Println(cli.EnvMessage)
}
