package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vbarroso/manutencao-backend/internal/cache"
	apperrors "github.com/vbarroso/manutencao-backend/internal/pkg/errors"
	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/repos"
	"github.com/vbarroso/manutencao-backend/internal/types"
)

// ImportRow is one parsed, asset-matched line of an import payload. Rows are
// provisional: the operator can still edit date, description and priority
// before committing.
type ImportRow struct {
	Line          int                 `json:"line"`
	AssetID       uuid.UUID           `json:"asset_id"`
	AssetCode     string              `json:"asset_code"`
	ScheduledDate time.Time           `json:"scheduled_date"`
	Description   string              `json:"description,omitempty"`
	Priority      types.OrderPriority `json:"priority"`
}

// ImportPreview reports what the payload parsed into. Nothing has been
// written when a preview returns; skipped rows are counted, not dropped
// silently.
type ImportPreview struct {
	Rows                []ImportRow `json:"rows"`
	SkippedUnknownAsset int         `json:"skipped_unknown_asset"`
	SkippedBadDate      int         `json:"skipped_bad_date"`
	SkippedMalformed    int         `json:"skipped_malformed"`
}

type ImportService interface {
	Preview(ctx context.Context, payload []byte) (*ImportPreview, error)
	Commit(ctx context.Context, rows []ImportRow, author string) (*GenerateResult, error)
}

type importService struct {
	log           *logger.Logger
	assetRepo     repos.AssetRepo
	workOrderRepo repos.WorkOrderRepo
	generator     *generatorService
	cache         cache.Cache
}

func NewImportService(log *logger.Logger, assetRepo repos.AssetRepo, workOrderRepo repos.WorkOrderRepo, c cache.Cache) ImportService {
	serviceLog := log.With("service", "ImportService")
	return &importService{
		log:           serviceLog,
		assetRepo:     assetRepo,
		workOrderRepo: workOrderRepo,
		generator:     &generatorService{log: serviceLog, workOrderRepo: workOrderRepo, cache: c},
		cache:         c,
	}
}

// sniffDelimiter picks between semicolon and comma by counting occurrences
// in the first line.
func sniffDelimiter(payload string) rune {
	line := payload
	if i := strings.IndexByte(payload, '\n'); i >= 0 {
		line = payload[:i]
	}
	if strings.Count(line, ";") >= strings.Count(line, ",") {
		return ';'
	}
	return ','
}

var importDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02/01/06",
	"02-01-06",
}

func parseImportDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// Preview parses the payload into provisional rows. A header row falls out
// naturally: its first column matches no asset code and it gets counted with
// the other skips.
func (s *importService) Preview(ctx context.Context, payload []byte) (*ImportPreview, error) {
	text := string(payload)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty payload", apperrors.ErrValidation)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	preview := &ImportPreview{}
	for i, record := range records {
		line := i + 1
		if len(record) < 2 {
			preview.SkippedMalformed++
			continue
		}
		code := strings.TrimSpace(record[0])
		if code == "" {
			preview.SkippedMalformed++
			continue
		}

		asset, err := s.assetRepo.GetByCode(ctx, nil, code)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				preview.SkippedUnknownAsset++
				continue
			}
			return nil, fmt.Errorf("match asset %q: %w", code, err)
		}

		date, err := parseImportDate(record[1])
		if err != nil {
			preview.SkippedBadDate++
			continue
		}

		row := ImportRow{
			Line:          line,
			AssetID:       asset.ID,
			AssetCode:     asset.Code,
			ScheduledDate: date,
			Priority:      types.OrderPriorityMedium,
		}
		if len(record) > 2 {
			row.Description = strings.TrimSpace(record[2])
		}
		preview.Rows = append(preview.Rows, row)
	}

	s.log.Info("Import previewed",
		"rows", len(preview.Rows),
		"skipped_unknown_asset", preview.SkippedUnknownAsset,
		"skipped_bad_date", preview.SkippedBadDate,
		"skipped_malformed", preview.SkippedMalformed)
	return preview, nil
}

// Commit writes the operator-confirmed rows as preventive orders, with the
// same batch discipline as bulk generation. This is the only write path of
// the import flow.
func (s *importService) Commit(ctx context.Context, rows []ImportRow, author string) (*GenerateResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows to commit", apperrors.ErrValidation)
	}

	orders := make([]*types.WorkOrder, 0, len(rows))
	years := make(map[int]bool)
	for _, row := range rows {
		if row.AssetID == uuid.Nil || row.ScheduledDate.IsZero() {
			return nil, fmt.Errorf("%w: row %d missing asset or date", apperrors.ErrValidation, row.Line)
		}
		priority := row.Priority
		if priority == "" {
			priority = types.OrderPriorityMedium
		}
		description := row.Description
		if description == "" {
			description = fmt.Sprintf("Manutencao preventiva importada - %s", row.AssetCode)
		}
		orders = append(orders, &types.WorkOrder{
			OrderNumber:   newOrderNumber(row.ScheduledDate.Year()),
			AssetID:       row.AssetID,
			OrderType:     types.OrderTypePreventive,
			Status:        types.OrderStatusPending,
			Priority:      priority,
			ScheduledDate: row.ScheduledDate,
			Description:   description,
			CreatedBy:     author,
		})
		years[row.ScheduledDate.Year()] = true
	}

	result := &GenerateResult{}
	insertErr := s.generator.insertBatches(ctx, orders, result)
	if result.Created > 0 {
		for year := range years {
			s.cache.Invalidate(ctx, cacheKeyOrders(year))
		}
	}
	s.log.Info("Import committed", "created", result.Created, "failed", result.Failed)
	return result, insertErr
}
