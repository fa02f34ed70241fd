package cmd

import (
	"context"
	"fmt"

	"github.com/haierkeys/fast-note-web/global"
	internalApp "github.com/haierkeys/fast-note-web/internal/app"
	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/internal/dto"
	"github.com/haierkeys/fast-note-web/internal/factory"
	"github.com/haierkeys/fast-note-web/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type seedFlags struct {
	dir     string
	config  string
	count   int
	workers int
	seed    int64
	dump    bool
}

// runSeed inserts count random notes through the note service.
func runSeed(ctx context.Context, f *seedFlags) error {
	config, err := resolveConfig(f.config)
	if err != nil {
		return err
	}

	cfg, _, err := internalApp.LoadConfig(config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lg, err := logger.NewLogger(cfg.LoggerConfig())
	if err != nil {
		return fmt.Errorf("initLogger: %w", err)
	}

	app, err := openApp(cfg, lg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Shutdown(context.Background()); err != nil {
			lg.Error("failed to shutdown app container", zap.Error(err))
		}
	}()

	notes, err := factory.NewNoteFactory(f.seed).CreateConcurrent(ctx, app.NoteService, f.count, f.workers)
	lg.Info("seed notes", zap.Int("requested", f.count), zap.Int("created", countCreated(notes)), zap.Error(err))
	if err != nil {
		return err
	}

	if f.dump {
		global.Dump(dto.NewNoteDTOList(notes))
	}
	return nil
}

func countCreated(notes []*domain.Note) int {
	n := 0
	for _, note := range notes {
		if note != nil {
			n++
		}
	}
	return n
}

func init() {
	f := new(seedFlags)

	var seedCommand = &cobra.Command{
		Use:   "seed [-n count] [-w workers] [-c config_file] [--seed n] [--dump]",
		Short: "Fill the database with random notes. // 生成随机笔记数据",
		RunE: func(cmd *cobra.Command, args []string) error {
			chdir(f.dir)
			return runSeed(cmd.Context(), f)
		},
	}

	rootCmd.AddCommand(seedCommand)
	fs := seedCommand.Flags()
	fs.StringVarP(&f.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&f.config, "config", "c", "", "config file")
	fs.IntVarP(&f.count, "count", "n", 10, "number of notes")
	fs.IntVarP(&f.workers, "workers", "w", 1, "concurrent inserts")
	fs.Int64Var(&f.seed, "seed", 0, "random seed, 0 uses the current time")
	fs.BoolVar(&f.dump, "dump", false, "print the created notes")
}
