package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vfg2006/mruda-api/infrastructure/integrator/meta"
	"github.com/vfg2006/mruda-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/mruda-api/infrastructure/migration"
	"github.com/vfg2006/mruda-api/internal/bootstrap"
	"github.com/vfg2006/mruda-api/internal/domain"
	"github.com/vfg2006/mruda-api/internal/usecases/analyzing"
	"github.com/vfg2006/mruda-api/internal/usecases/authenticating"
	"golang.org/x/crypto/bcrypt"
)

func runCmd(c *cli) *cobra.Command {
	var req analyzing.RunRequest

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Executa ingestão, normalização e análise e imprime o relatório",
		Example: `  mruda run --range yesterday
  mruda run --start 2024-03-01 --end 2024-03-07 --force
  mruda run --store memory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			output, err := app.Analyzer.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			return c.printJSON(output)
		},
	}

	cmd.Flags().StringVar(&req.DateRange, "range", "last_7d", "janela nomeada (yesterday|last_7d|last_14d|last_30d|this_month)")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "início explícito YYYY-MM-DD")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "fim explícito YYYY-MM-DD")
	cmd.Flags().BoolVar(&req.Force, "force", false, "busca na Meta mesmo com dados do dia")

	return cmd
}

func latestCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Imprime o relatório mais recente",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			snapshot, err := app.Analyzer.Latest(cmd.Context())
			if errors.Is(err, analyzing.ErrNoSnapshot) {
				_, err = fmt.Fprintln(c.out, "Nenhuma análise encontrada")
				return err
			}
			if err != nil {
				return err
			}

			insight, err := snapshot.Insight()
			if err != nil {
				return err
			}

			return c.printJSON(insight)
		},
	}
}

func historyCmd(c *cli) *cobra.Command {
	var (
		date  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Lista os snapshots salvos, do mais novo para o mais antigo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 || limit > 100 {
				return fmt.Errorf("--limit deve estar entre 1 e 100")
			}

			app, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			snapshots, err := app.Analyzer.History(cmd.Context(), date, limit)
			if err != nil {
				return err
			}

			for _, s := range snapshots {
				fmt.Fprintf(c.out, "%d\t%s\t%s → %s\tschema %s\n",
					s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), s.DateRangeStart, s.DateRangeEnd, s.SchemaVersion)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "filtra pelo fim da janela (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 10, "quantidade máxima de snapshots")

	return cmd
}

func migrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Cria as tabelas e índices no PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := bootstrap.Connect(cmd.Context(), c.cfg.Database)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := migration.Migrate(cmd.Context(), conn); err != nil {
				return err
			}

			_, err = fmt.Fprintln(c.out, "Migrações aplicadas")
			return err
		},
	}
}

func tokenCmd(c *cli) *cobra.Command {
	var (
		email string
		role  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite um JWT para acessar a API",
		RunE: func(cmd *cobra.Command, args []string) error {
			roleID, ok := map[string]int{"admin": domain.RoleAdmin, "viewer": domain.RoleViewer}[role]
			if !ok {
				return fmt.Errorf("perfil inválido %q (use admin ou viewer)", role)
			}

			token, err := authenticating.NewService(c.cfg.Auth).IssueToken(email, roleID)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(c.out, token)
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email gravado no token")
	cmd.Flags().StringVar(&role, "role", "viewer", "perfil (admin|viewer)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func validateTokenCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-token",
		Short: "Consulta o debug_token da Meta para o token configurado",
		RunE: func(cmd *cobra.Command, args []string) error {
			integrator := meta.New(c.cfg.Meta, metaclient.NewClient(c.cfg.Meta))

			info, err := integrator.ValidateToken(cmd.Context())
			if err != nil {
				return err
			}

			return c.printJSON(info)
		},
	}
}

func hashPasswordCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [senha]",
		Short: "Gera o hash bcrypt para AUTH_ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(c.out, string(hash))
			return err
		},
	}
}
