package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/domain/entity"
)

func TestWriter_WriteInvoices(t *testing.T) {
	invoices := []entity.Invoice{
		{ID: "1", DocNumber: "INV-1", TxnDate: "2024-01-15", DueDate: "2024-02-14", TotalAmt: 1500, Balance: 1500,
			CustomerRef: entity.CustomerRef{Name: "Acme Corporation"}, CustomerMemo: &entity.CustomerMemo{Value: "Thanks"}},
		{ID: "2", DocNumber: "INV-2", TxnDate: "2024-01-22", DueDate: "2024-02-21", TotalAmt: 2750, Balance: 1000,
			CustomerRef: entity.CustomerRef{Name: "Globex Industries"}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(zap.NewNop()).WriteInvoices(&buf, invoices))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, headers, rows[0])
	assert.Equal(t, "INV-1", rows[1][0])
	assert.Equal(t, "Acme Corporation", rows[1][1])
	assert.Equal(t, "Thanks", rows[1][6])
	assert.Equal(t, "Globex Industries", rows[2][1])
	assert.Equal(t, "Total", rows[3][0])

	total, err := f.GetCellValue(SheetName, "E4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "4250", total)

	balance, err := f.GetCellValue(SheetName, "F4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "2500", balance)
}

func TestWriter_WriteInvoices_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(zap.NewNop()).WriteInvoices(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Total", rows[1][0])
}
