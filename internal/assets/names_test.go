package assets

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNewNameParser(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  bool
	}{
		{name: "csv file", filename: "pokemon_names.csv", want: "csv"},
		{name: "upper case csv", filename: "NAMES.CSV", want: "csv"},
		{name: "xlsx file", filename: "names.xlsx", want: "xlsx"},
		{name: "legacy xls file", filename: "names.xls", wantErr: true},
		{name: "unsupported file", filename: "names.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser, err := NewNameParser(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrUnsupportedNames))
				return
			}
			require.NoError(t, err)
			switch tt.want {
			case "csv":
				_, ok := parser.(CSVNameParser)
				require.True(t, ok)
			case "xlsx":
				_, ok := parser.(XLSXNameParser)
				require.True(t, ok)
			}
		})
	}
}

func TestCSVNameParser_Parse(t *testing.T) {
	data := "\xef\xbb\xbfid,name\n001,Bulbasaur\n4, Charmander \n\n025,Pikachu,extra\nbad\n"

	names, err := CSVNameParser{}.Parse([]byte(data))
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"001": "Bulbasaur",
		"004": "Charmander",
		"025": "Pikachu",
	}, names)
}

func TestCSVNameParser_Generated(t *testing.T) {
	faker := gofakeit.New(7)

	want := make(map[string]string)
	var b strings.Builder
	for i := 1; i <= 50; i++ {
		name := faker.FirstName()
		want[fmt.Sprintf("%03d", i)] = name
		fmt.Fprintf(&b, "%d,%s\n", i, name)
	}

	names, err := CSVNameParser{}.Parse([]byte(b.String()))
	require.NoError(t, err)
	require.Equal(t, want, names)
}

func TestCSVNameParser_Malformed(t *testing.T) {
	_, err := CSVNameParser{}.Parse([]byte("001,\"Bulba\nsaur"))
	require.Error(t, err)
}

func TestXLSXNameParser_Parse(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"id", "name"},
		{"1", "Bulbasaur"},
		{"007", "Squirtle"},
		{"150", "Mewtwo"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	names, err := XLSXNameParser{}.Parse(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"001": "Bulbasaur",
		"007": "Squirtle",
		"150": "Mewtwo",
	}, names)
}

func TestXLSXNameParser_NotAWorkbook(t *testing.T) {
	_, err := XLSXNameParser{}.Parse([]byte("not a zip"))
	require.Error(t, err)
}
