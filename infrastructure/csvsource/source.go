package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"sptpts-backend/application/ports"
	"sptpts-backend/domain/core/entities"
	"sptpts-backend/domain/core/valueobjects"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// Column names of the regional sports facilities datasets, lower-cased
const (
	colID           = "id"
	colIstatCode    = "cod_istat_comune"
	colCategory     = "impianto_tipologia"
	colName         = "impianto_denominazione"
	colWebsite      = "impianto_sitoweb"
	colAccessType   = "impianto_tipoaccesso"
	colCity         = "impianto_comune"
	colContact      = "impianto_contatto"
	colEmail        = "impianto_contatto_email"
	colActivity     = "impianto_disciplina"
	colStreetNumber = "impianto_civico"
	colProvince     = "impianto_provincia"
	colStreetName   = "impianto_via"
	colLon          = "longitudine"
	colLat          = "latitudine"
	colDescription  = "impianto_descrizione"
)

var requiredColumns = []string{
	colIstatCode, colCategory, colName, colWebsite, colAccessType, colCity, colContact, colEmail,
	colActivity, colStreetNumber, colProvince, colStreetName, colLon, colLat, colDescription,
}

// ErrMissingIDColumn means the feed cannot be mapped at all
var ErrMissingIDColumn = errors.New("csv header has no id column")

// Source downloads latin-1, semicolon separated datasets
type Source struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSource creates a new Source
func NewSource(httpClient *http.Client, logger *zap.Logger) *Source {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Source{
		httpClient: httpClient,
		logger:     logger,
	}
}

var _ ports.PlaceSource = (*Source)(nil)

// Fetch downloads and parses one dataset. Besides http(s) URLs it accepts
// file:// URLs and plain paths, which is handy when running the importer locally.
func (s *Source) Fetch(ctx context.Context, rawURL string) ([]*entities.Place, []ports.RecordFailure, error) {
	body, err := s.open(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}
	defer body.Close()

	return s.Parse(body, rawURL)
}

func (s *Source) open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source url %q: %w", rawURL, err)
	}

	switch u.Scheme {
	case "http", "https":
	case "file":
		return os.Open(u.Path)
	case "":
		return os.Open(rawURL)
	default:
		return nil, fmt.Errorf("unsupported source scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download %s: status %d", rawURL, resp.StatusCode)
	}
	return resp.Body, nil
}

// Parse reads a latin-1 encoded dataset. Rows without an id are reported as
// failures; missing optional columns become empty strings.
func (s *Source) Parse(r io.Reader, source string) ([]*entities.Place, []ports.RecordFailure, error) {
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header of %s: %w", source, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns[colID]; !ok {
		return nil, nil, fmt.Errorf("%s: %w", source, ErrMissingIDColumn)
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			s.logger.Warn("Missing column, values will be empty",
				zap.String("source", source),
				zap.String("column", name),
			)
		}
	}

	var places []*entities.Place
	var failures []ports.RecordFailure

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", source, err)
		}

		get := func(name string) string {
			if i, ok := columns[name]; ok && i < len(record) {
				return record[i]
			}
			return ""
		}

		id, err := valueobjects.NewPlaceIDFromString(strings.TrimSpace(get(colID)))
		if err != nil {
			failures = append(failures, ports.RecordFailure{Source: source, Line: line, Reason: err.Error()})
			continue
		}

		places = append(places, &entities.Place{
			ID:           id,
			IstatCode:    get(colIstatCode),
			Category:     valueobjects.NormalizeCategory(get(colCategory)),
			Name:         get(colName),
			Website:      get(colWebsite),
			AccessType:   get(colAccessType),
			City:         get(colCity),
			Contact:      get(colContact),
			Email:        get(colEmail),
			Activity:     get(colActivity),
			StreetNumber: get(colStreetNumber),
			Province:     get(colProvince),
			StreetName:   get(colStreetName),
			Lon:          get(colLon),
			Lat:          get(colLat),
			Description:  get(colDescription),
			Searchable:   true,
		})
	}

	s.logger.Info("Parsed source",
		zap.String("source", source),
		zap.Int("records", len(places)),
		zap.Int("failed", len(failures)),
	)

	return places, failures, nil
}
