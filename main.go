package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"

	_ "github.com/leeineian/antigrafity/home"
	"github.com/leeineian/antigrafity/proc"
	"github.com/leeineian/antigrafity/sys"
)

const botPIDFile = ".bot.pid"

func main() {
	cfg, err := sys.LoadConfig()
	if err != nil {
		sys.LogFatal(sys.MsgConfigFailedToLoad, err)
	}

	silent := flag.Bool("silent", false, "Disable all log output")
	skipReg := flag.Bool("skip-reg", false, "Skip command registration")
	flag.Parse()

	sys.InitLogger(*silent || cfg.Silent, true)

	sys.LogInfo(sys.MsgBotStarting, "antigrafity")
	sys.LogInfo("Using database %s", filepath.Base(cfg.DatabasePath))

	if err := sys.InitDatabase(context.Background(), cfg.DatabasePath); err != nil {
		sys.LogFatal(sys.MsgDatabaseInitFail, err)
	}
	defer sys.CloseDatabase()

	// Replace any previous instance before taking the PID file.
	if pidData, err := os.ReadFile(botPIDFile); err == nil {
		if oldPid, err := strconv.Atoi(string(pidData)); err == nil && oldPid != os.Getpid() {
			if process, err := os.FindProcess(oldPid); err == nil {
				if process.Signal(syscall.Signal(0)) == nil {
					sys.LogInfo(sys.MsgBotKillingOld, oldPid)
					_ = process.Signal(syscall.SIGTERM)
					for i := 0; i < 50; i++ {
						if process.Signal(syscall.Signal(0)) != nil {
							break
						}
						time.Sleep(100 * time.Millisecond)
					}
					sys.LogInfo(sys.MsgBotOldTerminated)
				}
			}
		}
	}

	if err := os.WriteFile(botPIDFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		sys.LogWarn(sys.MsgBotPIDWriteFail, err)
	}
	defer os.Remove(botPIDFile)

	if err := run(cfg, *silent, *skipReg); err != nil {
		sys.LogFatal("%v", err)
	}
}

func run(cfg *sys.Config, silent bool, skipReg bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	sys.SetAppContext(ctx)

	// Client creation retries to ride out transient network failures at boot.
	var client *bot.Client
	var err error
	for i := 1; i <= 5; i++ {
		client, err = sys.CreateClient(ctx, cfg)
		if err == nil {
			break
		}
		if i == 5 {
			return fmt.Errorf(sys.MsgBotClientCreateFail, i, err)
		}
		sys.LogWarn(sys.MsgBotClientRetry, i, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
	defer client.Close(context.Background())

	if !skipReg {
		sys.SafeGo(func() {
			if err := sys.RegisterCommands(client, cfg.GuildID); err != nil {
				sys.LogError(sys.MsgBotRegisterFail, err)
			}
		})
	}

	if err := client.OpenGateway(ctx); err != nil {
		return fmt.Errorf(sys.MsgBotGatewayFail, err)
	}

	<-ctx.Done()
	if !silent {
		fmt.Println()
	}

	sys.LogInfo(sys.MsgDaemonShutdown)
	sys.ShutdownDaemons(context.Background())
	proc.GetVoiceManager().Shutdown(context.Background())

	sys.LogInfo(sys.MsgBotShutdown, "antigrafity")
	return nil
}
