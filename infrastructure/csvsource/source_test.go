package csvsource

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

const header = "ID;COD_ISTAT_Comune;Impianto_Tipologia;Impianto_Denominazione;Impianto_SitoWeb;Impianto_TipoAccesso;" +
	"Impianto_Comune;Impianto_Contatto;Impianto_Contatto_Email;Impianto_Disciplina;Impianto_Civico;" +
	"Impianto_Provincia;Impianto_Via;Longitudine;Latitudine;Impianto_Descrizione\n"

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	encoded, err := charmap.ISO8859_1.NewEncoder().String(s)
	require.NoError(t, err)
	return []byte(encoded)
}

func TestParseMapsColumns(t *testing.T) {
	feed := header +
		`123;024100;  Territorio ;Percorso "Vita";;Libero;Schio;Comune;info@comune.it;Corsa;12/A;VI;Via Città;11,36;45,71;Anello nel parco` + "\n" +
		";024100;Palestra;Senza id;;;;;;;;;;;;\n" +
		"456;024100;PALESTRA;Palazzetto;;;Thiene;;;;;VI;Via Roma;;;\n"

	places, failures, err := NewSource(nil, zap.NewNop()).Parse(bytes.NewReader(latin1(t, feed)), "test.csv")
	require.NoError(t, err)
	require.Len(t, places, 2)
	require.Len(t, failures, 1)

	first := places[0]
	assert.Equal(t, "123", first.ID.String())
	assert.Equal(t, "territorio", first.Category)
	assert.Equal(t, `Percorso "Vita"`, first.Name)
	assert.Equal(t, "Via Città", first.StreetName)
	assert.Equal(t, "12/A", first.StreetNumber)
	assert.Equal(t, "45,71", first.Lat)
	assert.Equal(t, "11,36", first.Lon)
	assert.True(t, first.Searchable)

	assert.Equal(t, "palestra", places[1].Category)
	assert.Equal(t, 3, failures[0].Line)
}

func TestParseToleratesMissingColumns(t *testing.T) {
	feed := "id;impianto_denominazione\n7;Piscina\n"

	places, failures, err := NewSource(nil, zap.NewNop()).Parse(strings.NewReader(feed), "short.csv")
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, places, 1)
	assert.Equal(t, "Piscina", places[0].Name)
	assert.Equal(t, "", places[0].City)
}

func TestParseRejectsFeedWithoutIDColumn(t *testing.T) {
	_, _, err := NewSource(nil, zap.NewNop()).Parse(strings.NewReader("nome;via\nA;B\n"), "bad.csv")
	assert.True(t, errors.Is(err, ErrMissingIDColumn))
}

func TestFetchOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/impianti.csv" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(latin1(t, header+"1;024100;Calcio;Stadio;;;Schio;;;;;VI;;;;\n"))
	}))
	defer server.Close()

	source := NewSource(server.Client(), zap.NewNop())

	places, _, err := source.Fetch(context.Background(), server.URL+"/impianti.csv")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "calcio", places[0].Category)

	_, _, err = source.Fetch(context.Background(), server.URL+"/missing.csv")
	assert.ErrorContains(t, err, "status 404")
}

func TestFetchLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "impianti.csv")
	require.NoError(t, os.WriteFile(path, latin1(t, header+"9;024100;Tennis;Campi;;;Schio;;;;;VI;;;;\n"), 0o600))

	places, _, err := NewSource(nil, zap.NewNop()).Fetch(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "9", places[0].ID.String())
}
