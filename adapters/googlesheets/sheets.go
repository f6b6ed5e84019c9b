package googlesheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/ideamans/go-sheetfdw"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheet implements sheetfdw.Sheet for one worksheet of a Google spreadsheet
type Sheet struct {
	service       *sheets.Service
	spreadsheetID string
	title         string
	sheetID       int64
	maxRetries    int
}

// NewSheet creates a Google Sheets backend with provided options and
// resolves the configured worksheet.
func NewSheet(ctx context.Context, config Config, opts ...option.ClientOption) (*Sheet, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	s := &Sheet{
		service:       service,
		spreadsheetID: config.SpreadsheetID,
		maxRetries:    config.retries(),
	}
	if err := s.resolve(ctx, config); err != nil {
		return nil, err
	}
	return s, nil
}

// Title returns the worksheet title
func (s *Sheet) Title() string {
	return s.title
}

// resolve looks up the worksheet title and numeric id
func (s *Sheet) resolve(ctx context.Context, config Config) error {
	var spreadsheet *sheets.Spreadsheet
	err := s.retry(ctx, func() error {
		var err error
		spreadsheet, err = s.service.Spreadsheets.Get(s.spreadsheetID).
			Fields("sheets.properties").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to open spreadsheet %s: %w", s.spreadsheetID, err)
	}

	for i, sh := range spreadsheet.Sheets {
		if sh.Properties == nil {
			continue
		}
		if (config.SheetName != "" && sh.Properties.Title == config.SheetName) ||
			(config.SheetName == "" && i == config.SheetIndex) {
			s.title = sh.Properties.Title
			s.sheetID = sh.Properties.SheetId
			return nil
		}
	}

	if config.SheetName != "" {
		return fmt.Errorf("%w: %q", ErrSheetNotFound, config.SheetName)
	}
	return fmt.Errorf("%w: index %d", ErrSheetNotFound, config.SheetIndex)
}

// Header returns the column names in row 1
func (s *Sheet) Header(ctx context.Context) ([]string, error) {
	var resp *sheets.ValueRange
	err := s.retry(ctx, func() error {
		var err error
		resp, err = s.getValues(ctx, s.a1("1:1"))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get header row: %w", err)
	}

	header := make([]string, 0)
	if len(resp.Values) > 0 {
		for _, v := range resp.Values[0] {
			header = append(header, sheetfdw.CellString(v))
		}
	}
	return header, nil
}

// Values returns every row of the worksheet, unformatted, dates as serial numbers
func (s *Sheet) Values(ctx context.Context) ([][]interface{}, error) {
	var resp *sheets.ValueRange
	err := s.retry(ctx, func() error {
		var err error
		resp, err = s.getValues(ctx, s.a1("A:ZZ"))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet data: %w", err)
	}
	if resp.Values == nil {
		return [][]interface{}{}, nil
	}
	return resp.Values, nil
}

// AppendRow adds a row after the last row of the table starting at A1.
// Appends are not retried: a retried append that reached the server
// would add the row twice.
func (s *Sheet) AppendRow(ctx context.Context, values []interface{}, opt sheetfdw.ValueInputOption) error {
	vr := &sheets.ValueRange{
		Values: [][]interface{}{values},
	}
	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, s.a1("A1"), vr).
		ValueInputOption(string(opt)).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

// UpdateCells writes each cell in a single batch request
func (s *Sheet) UpdateCells(ctx context.Context, cells []sheetfdw.Cell, opt sheetfdw.ValueInputOption) error {
	if len(cells) == 0 {
		return nil
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: string(opt),
		Data:             make([]*sheets.ValueRange, 0, len(cells)),
	}
	for _, c := range cells {
		req.Data = append(req.Data, &sheets.ValueRange{
			Range:  s.a1(cellName(c.Column, c.Row)),
			Values: [][]interface{}{{c.Value}},
		})
	}

	err := s.retry(ctx, func() error {
		_, err := s.service.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update cells: %w", err)
	}
	return nil
}

// DeleteRow removes a row; the rows below move up. Never retried: a
// retried delete that reached the server would remove the next row.
func (s *Sheet) DeleteRow(ctx context.Context, row int) error {
	if row < 1 {
		return fmt.Errorf("invalid row %d", row)
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:         s.sheetID,
						Dimension:       "ROWS",
						StartIndex:      int64(row - 1),
						EndIndex:        int64(row),
						ForceSendFields: []string{"SheetId", "StartIndex"},
					},
				},
			},
		},
	}
	_, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete row %d: %w", row, err)
	}
	return nil
}

// FindInColumn reads the column below the header and returns the first
// row whose unformatted cell text equals value.
func (s *Sheet) FindInColumn(ctx context.Context, column int, value string) (int, bool, error) {
	if column < 1 {
		return 0, false, nil
	}

	letter := columnName(column)
	var resp *sheets.ValueRange
	err := s.retry(ctx, func() error {
		var err error
		resp, err = s.getValues(ctx, s.a1(fmt.Sprintf("%s2:%s", letter, letter)))
		return err
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to search column %s: %w", letter, err)
	}

	for i, row := range resp.Values {
		if len(row) > 0 && sheetfdw.CellString(row[0]) == value {
			return i + 2, true, nil
		}
	}
	return 0, false, nil
}

func (s *Sheet) getValues(ctx context.Context, readRange string) (*sheets.ValueRange, error) {
	return s.service.Spreadsheets.Values.Get(s.spreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
}

// a1 prefixes ref with the worksheet title, quoting it when needed
func (s *Sheet) a1(ref string) string {
	return quoteTitle(s.title) + "!" + ref
}

func quoteTitle(title string) string {
	plain := title != ""
	for _, r := range title {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			plain = false
			break
		}
	}
	if plain {
		return title
	}
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// columnName converts a column number to its letter name (1 -> A, 26 -> Z, 27 -> AA)
func columnName(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnName(col), row)
}
