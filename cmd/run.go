package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haierkeys/fast-note-web/pkg/fileurl"

	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	dir     string // 项目根目录
	port    string // 启动端口
	runMode string // 启动模式
	config  string // 指定要使用的配置文件路径
}

// resolveConfig picks the config file to use. When none exists the embedded
// default is written to config/config.yaml.
// resolveConfig 查找配置文件，不存在时写出默认配置
func resolveConfig(config string) (string, error) {
	if len(config) > 0 {
		return config, nil
	}

	for _, f := range []string{"config/config-dev.yaml", "config.yaml", "config/config.yaml"} {
		if fileurl.IsExist(f) {
			return f, nil
		}
	}

	bootstrapLogger.Warn("config file not found, creating default config")
	config = "config/config.yaml"

	if err := fileurl.CreatePath(config, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "config file auto create error")
	}
	if err := os.WriteFile(config, []byte(configDefault), 0644); err != nil {
		return "", errors.Wrap(err, "config file auto create writing error")
	}
	bootstrapLogger.Info("config file auto create successfully", zap.String("path", config))
	return config, nil
}

func chdir(dir string) {
	if len(dir) == 0 {
		return
	}
	if err := os.Chdir(dir); err != nil {
		bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
		return
	}
	bootstrapLogger.Info("working directory changed", zap.String("dir", dir))
}

// watchConfig restarts the server whenever the config file is written.
func watchConfig(runEnv *runFlags, current func() *Server, replace func(*Server)) {
	w := watcher.New()

	// 每个监听周期至多接收 1 个事件
	w.SetMaxEvents(1)
	// 只通知写入事件
	w.FilterOps(watcher.Write)

	go func() {
		for {
			select {
			case event := <-w.Event:
				s := current()
				s.logger.Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))

				// 先关闭旧实例释放端口与数据库
				s.sc.SendCloseSignal(nil)
				if err := s.sc.WaitClosed(); err != nil {
					s.logger.Error("shutdown before reload completed with error", zap.Error(err))
				}

				ns, err := NewServer(runEnv)
				if err != nil {
					bootstrapLogger.Error("service start err", zap.Error(err))
					continue
				}
				replace(ns)

			case err := <-w.Error:
				current().logger.Error("config watcher error", zap.Error(err))
			case <-w.Closed:
				bootstrapLogger.Info("config watcher closed")
				return
			}
		}
	}()

	if err := w.Add(runEnv.config); err != nil {
		current().logger.Error("config watcher file error", zap.Error(err))
		return
	}

	if err := w.Start(time.Second * 5); err != nil {
		current().logger.Error("config watcher start error", zap.Error(err))
	}
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			chdir(runEnv.dir)

			config, err := resolveConfig(runEnv.config)
			if err != nil {
				bootstrapLogger.Error("resolve config", zap.Error(err))
				return
			}
			runEnv.config = config

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}

			holder := newServerHolder(s)
			go watchConfig(runEnv, holder.Load, holder.Store)

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			s = holder.Load()
			s.logger.Info("Received shutdown signal, initiating graceful shutdown...")
			s.sc.SendCloseSignal(nil)

			// 等待所有关闭处理器完成（包括 App Container 的优雅关闭）
			if err := s.sc.WaitClosed(); err != nil {
				s.logger.Error("Shutdown completed with error", zap.Error(err))
			} else {
				s.logger.Info("Service has been shut down gracefully.")
			}
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}
