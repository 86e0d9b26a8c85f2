package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/barcoder/internal/barcoder"
	"github.com/hay-kot/barcoder/internal/core/salesorder"
	"github.com/hay-kot/barcoder/pkg/iojson"
)

type OrderCmd struct {
	flags *Flags
	app   *barcoder.App
	fr    *iojson.FileReader[OrderInput]

	// flags
	extra      int
	sort       string
	desc       bool
	selectAll  bool
	generate   bool
	jsonOutput bool
}

// NewOrderCmd creates a new order command
func NewOrderCmd(flags *Flags, app *barcoder.App) *OrderCmd {
	return &OrderCmd{
		flags: flags,
		app:   app,
		fr:    &iojson.FileReader[OrderInput]{Usage: "path to JSON order request (reads from stdin if no order number is given)"},
	}
}

// Register adds the order command to the application
func (cmd *OrderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "order",
		Usage: "Reconcile one sales order and optionally generate stickers",
		UsageText: `barcoder order <number> [options]

Read a request from stdin:
  echo '{"order_number":"0012345","lines":["000001"],"generate":true}' | barcoder order

Read a request from a file:
  barcoder order -f request.json`,
		Description: `Loads the order and its customer catalog, computes sticker quantities and
prints the lines. Flags override fields of a JSON request.

Input JSON schema:
  {
    "order_number": "0012345",
    "extra": 3,
    "sort": "bin_location",
    "descending": false,
    "select_all": false,
    "lines": ["000001"],
    "qty": {"000001": 5},
    "generate": false
  }

Fields:
  order_number - Required. Sales order to load.
  extra        - Optional. Extra stickers per line (defaults to stickers.default_extra).
  sort         - Optional. Sort field for the printed lines.
  descending   - Optional. Sort direction (defaults to sort.ascending).
  select_all   - Optional. Select every line with a resolved catalog item.
  lines        - Optional. Line keys to select.
  qty          - Optional. Sticker quantity overrides by line key.
  generate     - Optional. Append the selected lines to the sticker file.`,
		Flags: []cli.Flag{
			cmd.fr.Flag(),
			&cli.IntFlag{
				Name:        "extra",
				Usage:       "extra stickers per line",
				Destination: &cmd.extra,
			},
			&cli.StringFlag{
				Name:        "sort",
				Usage:       "sort field (" + sortFieldNames() + ")",
				Destination: &cmd.sort,
			},
			&cli.BoolFlag{
				Name:        "desc",
				Usage:       "sort descending",
				Destination: &cmd.desc,
			},
			&cli.BoolFlag{
				Name:        "select-all",
				Aliases:     []string{"a"},
				Usage:       "select every eligible line",
				Destination: &cmd.selectAll,
			},
			&cli.BoolFlag{
				Name:        "generate",
				Aliases:     []string{"g"},
				Usage:       "generate stickers for the selected lines",
				Destination: &cmd.generate,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *OrderCmd) run(ctx context.Context, c *cli.Command) error {
	input, err := cmd.resolveInput(c)
	if err != nil {
		return err
	}

	if err := input.Validate(); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	result, err := cmd.process(ctx, input)
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, result)
	}
	return cmd.outputText(c, result)
}

// resolveInput builds the request from the positional order number, or
// from --file/stdin when none is given. Explicitly set flags win.
func (cmd *OrderCmd) resolveInput(c *cli.Command) (OrderInput, error) {
	var input OrderInput

	if c.Args().Len() > 0 {
		input.OrderNumber = c.Args().First()
	} else if cmd.fr.Provided() {
		var err error
		input, err = cmd.fr.Read()
		if err != nil {
			return input, fmt.Errorf("read input: %w", err)
		}
	} else {
		return input, fmt.Errorf("order number required. Run 'barcoder order --help' for usage")
	}

	if c.IsSet("extra") {
		extra := cmd.extra
		input.Extra = &extra
	}
	if c.IsSet("sort") {
		input.Sort = cmd.sort
	}
	if c.IsSet("desc") {
		desc := cmd.desc
		input.Descending = &desc
	}
	input.SelectAll = input.SelectAll || cmd.selectAll
	input.Generate = input.Generate || cmd.generate
	input.OrderNumber = strings.TrimSpace(input.OrderNumber)

	return input, nil
}

func (cmd *OrderCmd) process(ctx context.Context, input OrderInput) (OrderOutput, error) {
	svc := cmd.app.Orders

	if err := svc.LoadOrder(ctx, input.OrderNumber); err != nil {
		return OrderOutput{}, fmt.Errorf("load order %s: %w", input.OrderNumber, err)
	}

	if input.Extra != nil {
		svc.Apply(salesorder.ExtraStickersSet{Count: *input.Extra})
	}
	if input.Sort != "" || input.Descending != nil {
		spec := svc.State().Sort
		if input.Sort != "" {
			spec.Field, _ = salesorder.ParseSortField(input.Sort)
		}
		if input.Descending != nil {
			spec.Ascending = !*input.Descending
		}
		svc.Apply(salesorder.SortChanged{Spec: spec})
	}
	if input.SelectAll {
		svc.Apply(salesorder.AllSelectionToggled{Selected: true})
	}

	detail := svc.State().Detail
	selected := true
	var errs criterio.FieldErrorsBuilder
	for i, key := range input.Lines {
		if _, ok := findLine(detail, key); !ok {
			errs = errs.Append(fmt.Sprintf("lines[%d]", i), fmt.Errorf("line %q not on order %s", key, input.OrderNumber))
			continue
		}
		svc.Apply(salesorder.LineSelectionToggled{LineKey: key, Forced: &selected})
	}
	for key, qty := range input.Qty {
		if _, ok := findLine(detail, key); !ok {
			errs = errs.Append("qty."+key, fmt.Errorf("line %q not on order %s", key, input.OrderNumber))
			continue
		}
		svc.Apply(salesorder.LineQtySet{LineKey: key, Qty: qty})
	}
	if err := errs.ToError(); err != nil {
		return OrderOutput{}, fmt.Errorf("invalid input: %w", err)
	}

	var generated *int
	if input.Generate {
		n, err := svc.Generate(ctx)
		if err != nil {
			return OrderOutput{}, err
		}
		generated = &n
	}

	st := svc.State()
	out := OrderOutput{
		Header:        st.Header,
		Sort:          st.Sort,
		ExtraStickers: st.ExtraStickers,
		Lines:         st.Detail,
		MissingItems:  st.MissingItems,
		Selected:      st.SelectedCount,
		TotalStickers: st.TotalStickers,
		Generated:     generated,
	}
	if st.Generated && cmd.app.Config != nil {
		out.StickersFile = cmd.app.Config.StickersFile()
	}
	return out, nil
}

func (cmd *OrderCmd) outputText(c *cli.Command, result OrderOutput) error {
	out := c.Root().Writer

	if h := result.Header; h != nil {
		_, _ = fmt.Fprintf(out, "Order %s  %s (%s)\n", h.OrderNumber, h.CustomerName, h.CustomerNumber)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SEL\tLINE\tITEM\tDESCRIPTION\tBIN\tORDERED\tUOM\tSTICKERS")
	for _, l := range result.Lines {
		sel := ""
		if l.Selected {
			sel = "x"
		}
		stickers := "-"
		switch {
		case l.Resolved():
			stickers = strconv.Itoa(l.StickerQty)
		case l.Missing():
			stickers = "missing"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			sel, l.LineKey, l.ItemCode, l.Description, l.BinLocation,
			strconv.FormatFloat(l.QuantityOrdered, 'f', -1, 64), l.UnitOfMeasure, stickers)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if result.MissingItems > 0 {
		fmt.Fprintf(os.Stderr, "%d line(s) reference items missing from the customer catalog\n", result.MissingItems)
	}
	_, _ = fmt.Fprintf(out, "\nsort %s • extra %d • %d selected • %d stickers\n",
		result.Sort, result.ExtraStickers, result.Selected, result.TotalStickers)

	if result.Generated != nil {
		_, _ = fmt.Fprintf(out, "Generated %d sticker(s) to %s\n", *result.Generated, result.StickersFile)
	}
	return nil
}

// OrderInput is the JSON request schema for headless order processing.
type OrderInput struct {
	OrderNumber string         `json:"order_number"`
	Extra       *int           `json:"extra,omitempty"`
	Sort        string         `json:"sort,omitempty"`
	Descending  *bool          `json:"descending,omitempty"`
	SelectAll   bool           `json:"select_all,omitempty"`
	Lines       []string       `json:"lines,omitempty"`
	Qty         map[string]int `json:"qty,omitempty"`
	Generate    bool           `json:"generate,omitempty"`
}

// Validate checks the request for errors using criterio.
func (in OrderInput) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if strings.TrimSpace(in.OrderNumber) == "" {
		errs = errs.Append("order_number", fmt.Errorf("is required"))
	}
	if in.Extra != nil && *in.Extra < 0 {
		errs = errs.Append("extra", fmt.Errorf("cannot be negative"))
	}
	if in.Sort != "" {
		if _, err := salesorder.ParseSortField(in.Sort); err != nil {
			errs = errs.Append("sort", err)
		}
	}

	seen := make(map[string]bool, len(in.Lines))
	for i, key := range in.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if strings.TrimSpace(key) == "" {
			errs = errs.Append(field, fmt.Errorf("line key is empty"))
			continue
		}
		if seen[key] {
			errs = errs.Append(field, fmt.Errorf("duplicate line %q", key))
			continue
		}
		seen[key] = true
	}

	for key, qty := range in.Qty {
		if qty < 0 {
			errs = errs.Append("qty."+key, fmt.Errorf("cannot be negative"))
		}
	}

	return errs.ToError()
}

// OrderOutput is the JSON output schema.
type OrderOutput struct {
	Header        *salesorder.Header      `json:"header"`
	Sort          salesorder.SortSpec     `json:"sort"`
	ExtraStickers int                     `json:"extra_stickers"`
	Lines         []salesorder.DetailLine `json:"lines"`
	MissingItems  int                     `json:"missing_items"`
	Selected      int                     `json:"selected"`
	TotalStickers int                     `json:"total_stickers"`
	Generated     *int                    `json:"generated,omitempty"`
	StickersFile  string                  `json:"stickers_file,omitempty"`
}

func findLine(detail []salesorder.DetailLine, key string) (salesorder.DetailLine, bool) {
	for _, l := range detail {
		if l.LineKey == key {
			return l, true
		}
	}
	return salesorder.DetailLine{}, false
}

func sortFieldNames() string {
	names := make([]string, len(salesorder.SortFields))
	for i, f := range salesorder.SortFields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
