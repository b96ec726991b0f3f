package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv points every command at a fresh SQLite file and quote directory.
func setupEnv(t *testing.T) (quoteDir string) {
	t.Helper()
	dir := t.TempDir()
	quoteDir = filepath.Join(dir, "orcamentos")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(dir, "erp.db"))
	t.Setenv("QUOTE_OUTPUT_DIR", quoteDir)
	t.Setenv("COMPANY_NAME", "Esquadrias Teste")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("AMQP_URL", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	return quoteDir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--env-file", "", "--plain"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRevenueAddListRemove(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "revenue", "add",
		"--date", "2024-03-10",
		"--client", "Construtora Azul",
		"--description", "Janelas bloco A",
		"--amount", "1500,00")
	require.NoError(t, err)
	assert.Contains(t, out, "Faturamento registrado")
	assert.Contains(t, out, "R$ 1.500,00")
	id := strings.Fields(out)[3]

	out, err = runCLI(t, "revenue", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "# Faturamento")
	assert.Contains(t, out, "| "+id+" | 10/03/2024 | Construtora Azul | Janelas bloco A | R$ 1.500,00 |")

	out, err = runCLI(t, "revenue", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "removido")

	out, err = runCLI(t, "revenue", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Nenhum faturamento registrado.")
}

func TestRevenueRemoveUnknownID(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "revenue", "rm", "nao-existe")
	require.NoError(t, err)
	assert.Contains(t, out, "Nenhum lançamento com id nao-existe")
}

func TestCostAddRejectsInvalidInput(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "cost", "add",
		"--date", "2024-03-12",
		"--category", "viagem",
		"--description", "Hotel",
		"--amount", "100")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid category")

	out, err := runCLI(t, "cost", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Nenhum custo registrado.")
}

func TestSummary(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "revenue", "add", "--date", "2024-03-10", "--client", "Acme",
		"--description", "Portas", "--amount", "1000")
	require.NoError(t, err)
	_, err = runCLI(t, "cost", "add", "--date", "2024-03-12", "--category", "material",
		"--description", "Perfis", "--amount", "300")
	require.NoError(t, err)
	_, err = runCLI(t, "cost", "add", "--date", "2024-04-02", "--category", "freight",
		"--description", "Entrega", "--amount", "100")
	require.NoError(t, err)

	out, err := runCLI(t, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "| R$ 1.000,00 | R$ 400,00 | R$ 600,00 |")
	assert.Contains(t, out, "| Mar/24 | R$ 1.000,00 | R$ 300,00 | R$ 700,00 |")
	assert.Contains(t, out, "| Abr/24 | R$ 0,00 | R$ 100,00 | -R$ 100,00 |")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "25%")
}

func TestSummaryRendered(t *testing.T) {
	setupEnv(t)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--env-file", "", "--style", "notty", "summary"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "Resumo Financeiro")
	assert.Contains(t, out.String(), "Nenhum lançamento registrado.")
	assert.NotContains(t, out.String(), "|---:|")
}

func TestQuoteWritesDocument(t *testing.T) {
	quoteDir := setupEnv(t)

	out, err := runCLI(t, "quote",
		"--client", "Maria Silva",
		"--phone", "(11) 98888-7777",
		"--item", "Janela de correr;2;450,00",
		"--item", "Instalação;1;200")
	require.NoError(t, err)
	assert.Contains(t, out, "Orçamento salvo em")

	files, err := filepath.Glob(filepath.Join(quoteDir, "Orcamento_Maria_Silva_*.txt"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	body, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "ORÇAMENTO\n"))
	assert.Contains(t, string(body), "Nome: Maria Silva")
	assert.Contains(t, string(body), "Esquadrias Teste")
	assert.Contains(t, string(body), "R$ 1.100,00")
}

func TestQuoteValidation(t *testing.T) {
	quoteDir := setupEnv(t)

	_, err := runCLI(t, "quote", "--client", "Maria Silva", "--item", "Janela;1;100")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Preencha todos os campos")

	_, err = runCLI(t, "quote", "--client", "Maria", "--phone", "1", "--item", "Janela;1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1")

	_, statErr := os.Stat(quoteDir)
	assert.True(t, os.IsNotExist(statErr), "no quote should have been written")
}

func TestExportRequiresSpreadsheet(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "export", "sheets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_SPREADSHEET_ID")
}

func TestQuotesConsumeRequiresAMQP(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "quotes", "consume")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AMQP_URL")
}

func TestInvalidConfiguration(t *testing.T) {
	setupEnv(t)
	t.Setenv("DATA_BACKEND", "planilha")

	_, err := runCLI(t, "summary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid data backend")
}

func TestSplitItem(t *testing.T) {
	desc, qty, price, err := splitItem(" Janela ; 2 ; 450,00 ")
	require.NoError(t, err)
	assert.Equal(t, "Janela", desc)
	assert.Equal(t, "2", qty)
	assert.Equal(t, "450,00", price)

	_, _, _, err = splitItem("Janela;2")
	assert.Error(t, err)
}

func TestCellEscapesTableSyntax(t *testing.T) {
	assert.Equal(t, `Porta \| Janela linha`, cell("Porta | Janela\nlinha"))
}
