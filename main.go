package main

import (
	"context"
	"flag"
	"log"
	"sync"
	"time"

	"github.com/balyuf/timekit/app"
	"github.com/balyuf/timekit/config"
	"github.com/balyuf/timekit/driver"
	"github.com/balyuf/timekit/mlog"
	"github.com/balyuf/timekit/timer"
)

// housekeeping 示例模块，挂两个周期任务
type housekeeping struct {
	start time.Time
	quit  chan struct{}
}

func statsDump(rc any) {
	h := rc.(*housekeeping)
	mlog.Infof("uptime %s, live timers %d",
		time.Since(h.start).Truncate(time.Second), timer.Default().Len())
}

func beat(rc any) {
	mlog.Debug("beat")
}

func (h *housekeeping) Name() string { return "housekeeping" }

func (h *housekeeping) OnInit() error {
	h.start = time.Now()
	h.quit = make(chan struct{})
	if err := timer.Install(statsDump, 5_000_000, h, "housekeeping-stats"); err != nil {
		return err
	}
	return timer.Install(beat, 1_000_000, nil, "housekeeping-beat")
}

func (h *housekeeping) Run() {
	<-h.quit
}

func (h *housekeeping) Destroy() {
	timer.Remove(statsDump)
	timer.Remove(beat)
	close(h.quit)
}

func main() {
	conf := flag.String("conf", "", "json配置文件路径")
	flag.Parse()

	if err := config.LoadConfig(*conf, nil); err != nil {
		log.Fatalf("load config error %v", err)
	}
	cfg := config.Config

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	if cfg.LogPath == "" {
		mlog.UseStdLogger(mlog.Level(cfg.LogLevel))
	} else {
		if err := mlog.UseDefaultLogger(ctx, wg, cfg.LogPath, cfg.LogName, mlog.Level(cfg.LogLevel), cfg.LogStdOut); err != nil {
			log.Fatalf("init logger error %v", err)
		}
	}
	mlog.Infof("%s config:\n%s", cfg.AppName, cfg.JsonFormat())

	app.DefaultApp().Run(
		&driver.Module{SpanMs: cfg.TickSpanMs, PollMs: cfg.PollIntervalMs},
		&housekeeping{},
	)

	cancel()
	wg.Wait()
}
