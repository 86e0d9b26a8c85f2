package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/barcoder/internal/barcoder"
	"github.com/hay-kot/barcoder/internal/core/config"
	"github.com/hay-kot/barcoder/pkg/iojson"
)

const testOrder = `
header:
  order_number: "0012345"
  customer_number: 01-ACME
  customer_name: Acme Outdoor
  order_date: "2026-10-01"
lines:
  - line_key: "000001"
    line_seq: 1
    item_type: "1"
    item_code: BKP-100
    description: Trail backpack
    quantity_ordered: 10
    bin_location: C-02
  - line_key: "000002"
    line_seq: 2
    item_type: "1"
    item_code: TNT-200
    description: Tent
    quantity_ordered: 2
    uom_conv_factor: 6
    bin_location: A-10
  - line_key: "000003"
    line_seq: 3
    item_type: "3"
    item_code: /FREIGHT
`

const testCatalog = `
customer_number: 01-ACME
items:
  - item_code: BKP-100
    upc: "012345678905"
    case_qty: 4
  - item_code: TNT-200
    case_qty: 6
`

type testEnv struct {
	flags *Flags
	app   *barcoder.App
	out   *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "orders", "0012345.yaml"), testOrder)
	writeFixture(t, filepath.Join(dir, "customers", "01-ACME.yaml"), testCatalog)

	cfg, err := config.Load("", dir)
	require.NoError(t, err)

	return &testEnv{
		flags: &Flags{DataDir: dir, Config: cfg},
		app:   barcoder.NewFileApp(cfg),
		out:   &bytes.Buffer{},
	}
}

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	root := &cli.Command{Name: "barcoder", Writer: e.out}
	root = NewOrdersCmd(e.flags, e.app).Register(root)
	root = NewOrderCmd(e.flags, e.app).Register(root)
	root = NewConfigValidateCmd(e.flags).Register(root)
	return root.Run(context.Background(), append([]string{"barcoder"}, args...))
}

func TestOrdersCmd_Table(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, "orders"))

	out := env.out.String()
	assert.Contains(t, out, "ORDER")
	assert.Contains(t, out, "0012345")
	assert.Contains(t, out, "Acme Outdoor")
}

func TestOrdersCmd_FilterJSON(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, "orders", "--filter", "acme", "--json"))
	lines := strings.Split(strings.TrimSpace(env.out.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"order_number":"0012345"`)

	env.out.Reset()
	require.NoError(t, env.run(t, "orders", "--filter", "zzz", "--json"))
	assert.Empty(t, env.out.String())
}

func TestOrderCmd_SelectAllAndGenerate(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, "order", "--extra", "0", "--select-all", "--generate", "--json", "0012345"))

	var got OrderOutput
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &got))

	require.NotNil(t, got.Header)
	assert.Equal(t, "0012345", got.Header.OrderNumber)
	assert.Equal(t, 0, got.ExtraStickers)
	assert.Equal(t, 2, got.Selected)
	assert.Equal(t, 5, got.TotalStickers) // ceil(10/4) + ceil(12/6)
	require.NotNil(t, got.Generated)
	assert.Equal(t, 5, *got.Generated)
	assert.Equal(t, env.flags.Config.StickersFile(), got.StickersFile)

	// bin order: TNT at A-10 first
	require.Len(t, got.Lines, 3)
	assert.Equal(t, "000003", got.Lines[0].LineKey)
	assert.Equal(t, "000002", got.Lines[1].LineKey)

	assert.Equal(t, 2, countLines(t, env.flags.Config.StickersFile()))
}

func TestOrderCmd_FileRequest(t *testing.T) {
	env := newTestEnv(t)

	req := filepath.Join(t.TempDir(), "request.json")
	writeFixture(t, req, `{"order_number":"0012345","lines":["000002"],"qty":{"000002":7},"generate":true}`)

	require.NoError(t, env.run(t, "order", "-f", req, "--sort", "line_seq", "--json"))

	var got OrderOutput
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &got))
	assert.Equal(t, "line_seq asc", got.Sort.String())
	assert.Equal(t, "000001", got.Lines[0].LineKey)
	assert.Equal(t, 1, got.Selected)
	require.NotNil(t, got.Generated)
	assert.Equal(t, 7, *got.Generated)

	f, err := os.Open(env.flags.Config.StickersFile())
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	type record struct {
		OrderNumber string `json:"order_number"`
		LineKey     string `json:"line_key"`
		Qty         int    `json:"qty"`
	}
	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan())
	var rec record
	require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
	assert.Equal(t, record{OrderNumber: "0012345", LineKey: "000002", Qty: 7}, rec)
}

func TestOrderCmd_PaddedOrderNumber(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, "order", "--json", " 0012345 "))

	var got OrderOutput
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &got))
	require.NotNil(t, got.Header)
	assert.Equal(t, "0012345", got.Header.OrderNumber)
	assert.Len(t, got.Lines, 3)

	req := filepath.Join(t.TempDir(), "request.json")
	writeFixture(t, req, `{"order_number":" 0012345","select_all":true}`)

	env.out.Reset()
	require.NoError(t, env.run(t, "order", "-f", req, "--json"))
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &got))
	require.NotNil(t, got.Header)
	assert.Equal(t, "0012345", got.Header.OrderNumber)
	assert.Equal(t, 2, got.Selected)
}

func TestOrderCmd_SortKeepsConfiguredDirection(t *testing.T) {
	env := newTestEnv(t)
	asc := false
	env.flags.Config.Sort.Ascending = &asc
	env.app = barcoder.NewFileApp(env.flags.Config)

	require.NoError(t, env.run(t, "order", "--sort", "item_code", "--json", "0012345"))

	var got OrderOutput
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &got))
	assert.Equal(t, "item_code desc", got.Sort.String())

	env.out.Reset()
	require.NoError(t, env.run(t, "order", "--sort", "item_code", "--desc=false", "--json", "0012345"))
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &got))
	assert.Equal(t, "item_code asc", got.Sort.String())

	req := filepath.Join(t.TempDir(), "request.json")
	writeFixture(t, req, `{"order_number":"0012345","sort":"line_seq"}`)

	env.app = barcoder.NewFileApp(env.flags.Config)
	env.out.Reset()
	require.NoError(t, env.run(t, "order", "-f", req, "--json"))
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &got))
	assert.Equal(t, "line_seq desc", got.Sort.String())
}

func TestOrderCmd_TextOutput(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, "order", "0012345"))

	out := env.out.String()
	assert.Contains(t, out, "Order 0012345  Acme Outdoor (01-ACME)")
	assert.Contains(t, out, "Trail backpack")
	assert.Contains(t, out, "sort bin_location asc • extra 3 • 0 selected • 0 stickers")
	assert.NoFileExists(t, env.flags.Config.StickersFile())
}

func TestOrderCmd_Errors(t *testing.T) {
	env := newTestEnv(t)

	err := env.run(t, "order", "0099999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = env.run(t, "order", "--sort", "price", "0012345")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sort")

	req := filepath.Join(t.TempDir(), "request.json")
	writeFixture(t, req, `{"order_number":"0012345","lines":["000009"]}`)
	err = env.run(t, "order", "-f", req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not on order")

	writeFixture(t, req, `{"order_number":"0012345","bogus":true}`)
	err = env.run(t, "order", "-f", req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read input")
}

func TestOrderInput_Validate(t *testing.T) {
	neg := -1
	tests := []struct {
		name    string
		input   OrderInput
		wantErr string
	}{
		{name: "valid", input: OrderInput{OrderNumber: "0012345", Lines: []string{"000001"}}},
		{name: "missing order", input: OrderInput{OrderNumber: "  "}, wantErr: "order_number"},
		{name: "negative extra", input: OrderInput{OrderNumber: "1", Extra: &neg}, wantErr: "extra"},
		{name: "unknown sort", input: OrderInput{OrderNumber: "1", Sort: "price"}, wantErr: "sort"},
		{name: "empty line key", input: OrderInput{OrderNumber: "1", Lines: []string{""}}, wantErr: "lines[0]"},
		{name: "duplicate line", input: OrderInput{OrderNumber: "1", Lines: []string{"a", "a"}}, wantErr: "duplicate"},
		{name: "negative qty", input: OrderInput{OrderNumber: "1", Qty: map[string]int{"a": -2}}, wantErr: "qty.a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOrderInput_Decode(t *testing.T) {
	got, err := iojson.Decode[OrderInput](strings.NewReader(`{"order_number":"0012345","extra":0,"select_all":true}`))
	require.NoError(t, err)
	require.NotNil(t, got.Extra)
	assert.Equal(t, 0, *got.Extra)
	assert.True(t, got.SelectAll)
}

func TestConfigValidateCmd_JSON(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, "config", "validate", "--format", "json"))

	var got struct {
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &got))
	assert.True(t, got.Valid)
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return len(strings.Split(strings.TrimSpace(string(data)), "\n"))
}
