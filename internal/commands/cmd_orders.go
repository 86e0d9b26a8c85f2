package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/barcoder/internal/barcoder"
	"github.com/hay-kot/barcoder/internal/core/selection"
	"github.com/hay-kot/barcoder/pkg/iojson"
)

type OrdersCmd struct {
	flags *Flags
	app   *barcoder.App

	// flags
	filter     string
	fuzzy      bool
	jsonOutput bool
}

// NewOrdersCmd creates a new orders command
func NewOrdersCmd(flags *Flags, app *barcoder.App) *OrdersCmd {
	return &OrdersCmd{flags: flags, app: app}
}

// Register adds the orders command to the application
func (cmd *OrdersCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "orders",
		Usage:     "List sales orders",
		UsageText: "barcoder orders [--filter query] [--fuzzy] [--json]",
		Description: `Displays a table of the sales orders found under <data-dir>/orders.

--filter matches order number, customer number and customer name using the
configured selection.match mode. --fuzzy forces fuzzy matching.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "filter",
				Aliases:     []string{"q"},
				Usage:       "only list orders matching the query",
				Destination: &cmd.filter,
			},
			&cli.BoolFlag{
				Name:        "fuzzy",
				Usage:       "use fuzzy matching for --filter",
				Destination: &cmd.fuzzy,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *OrdersCmd) run(ctx context.Context, c *cli.Command) error {
	match := cmd.app.Config.Selection.Match
	if cmd.fuzzy {
		match = selection.MatchFuzzy
	}

	orders, err := cmd.app.Orders.ListOrders(ctx, cmd.filter, match)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, o := range orders {
			if err := iojson.WriteLine(out, o); err != nil {
				return fmt.Errorf("encode order: %w", err)
			}
		}
		return nil
	}

	if len(orders) == 0 {
		fmt.Fprintf(os.Stderr, "No orders found\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ORDER\tCUSTOMER\tNAME\tDATE\tLINES")
	for _, o := range orders {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", o.OrderNumber, o.CustomerNumber, o.CustomerName, o.OrderDate, o.Lines)
	}
	return w.Flush()
}
