package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vfg2006/mruda-api/internal/bootstrap"
	"github.com/vfg2006/mruda-api/internal/config"
	"github.com/vfg2006/mruda-api/pkg/log"
	"github.com/vfg2006/mruda-api/pkg/utils"
)

type cli struct {
	out        io.Writer
	loadConfig func() (*config.Config, error)
	store      string

	cfg *config.Config
}

func newCLI(out io.Writer) *cli {
	return &cli{
		out:        out,
		loadConfig: config.NewConfig,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "mruda",
		Short:         "Pipeline de análise de performance de anúncios da Meta",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return fmt.Errorf("erro ao carregar configuração: %w", err)
			}
			log.Configure(cfg.App.LogLevel, cfg.App.LogFile)
			c.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.store, "store", bootstrap.StorePostgres, "armazenamento (postgres|memory)")

	root.AddCommand(
		runCmd(c),
		latestCmd(c),
		historyCmd(c),
		migrateCmd(c),
		tokenCmd(c),
		validateTokenCmd(c),
		hashPasswordCmd(c),
	)

	return root
}

// app monta as dependências para comandos que precisam do pipeline
func (c *cli) app(ctx context.Context) (*bootstrap.App, error) {
	return bootstrap.New(ctx, c.cfg, c.store)
}

func (c *cli) printJSON(v any) error {
	out, err := utils.PrettyJson(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, out)
	return err
}
