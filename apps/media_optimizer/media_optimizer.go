package main

import (
	"fmt"
	"os"

	"github.com/qrpstudio/media-services/cleanup"
	"github.com/qrpstudio/media-services/models/common"
	"github.com/qrpstudio/media-services/util/cli"
	"github.com/qrpstudio/media-services/workers"
)

func main() {
	cli.Init()
	opts := cli.ParseOpts()
	if opts.PrintHelp {
		printHelp()
		cli.PrintDefaults()
		os.Exit(0)
	}

	context := common.NewContext()
	tracker := cleanup.NewTracker(
		context.RecordDB,
		cleanup.DefaultReferenceSites(),
		context.Logger,
	)
	scheduler := cleanup.NewScheduler(
		context.Store,
		cleanup.DefaultSchedulerSettings(context.Config.MediaRoot),
		context.Logger,
	)
	scheduler.SetStateKeeper(context.RedisClient)
	hooks := cleanup.NewHooks(
		tracker,
		scheduler,
		context.Config.MediaPrefix,
		context.Logger,
	)

	// If anything goes wrong, this panics.
	// Otherwise, it starts handling NSQ messages immediately.
	worker := workers.NewReoptimizer(
		context,
		hooks,
		opts.ChannelBufferSize,
		opts.NumWorkers,
	)

	// This channel blocks until we get an interrupt,
	// so our program does not exit without Control-C
	// or other kill signal.
	<-worker.NSQConsumer.StopChan
	scheduler.Stop()
}

func printHelp() {
	message := `
media_optimizer regenerates WebP renditions for photos uploaded before
the transcoding pipeline existed. It consumes photo IDs from NSQ, reads
each photo's original file from storage, writes thumbnail, medium and
full renditions beside it, updates the photo record's URLs, and
schedules the superseded original for deletion once no record still
references it.`
	fmt.Println(message)
	fmt.Println(cli.EnvMessage)
}
