package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vbarroso/manutencao-backend/internal/cache"
	apperrors "github.com/vbarroso/manutencao-backend/internal/pkg/errors"
	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/types"
)

func newTestImporter(assets *fakeAssetRepo, orders *fakeWorkOrderRepo) ImportService {
	return NewImportService(logger.NewNop(), assets, orders, cache.NewMemoryCache())
}

func TestSniffDelimiter(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    rune
	}{
		{name: "semicolons", payload: "AC-001;15/03/2026;desc", want: ';'},
		{name: "commas", payload: "AC-001,15/03/2026,desc", want: ','},
		{name: "semicolon_wins_tie", payload: "AC-001", want: ';'},
		{name: "only_first_line_counts", payload: "a;b\nc,d,e,f,g", want: ';'},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sniffDelimiter(tc.payload); got != tc.want {
				t.Fatalf("sniffDelimiter(%q) = %q, want %q", tc.payload, got, tc.want)
			}
		})
	}
}

func TestParseImportDate(t *testing.T) {
	want := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{name: "iso", raw: "2026-03-15", ok: true},
		{name: "slash_four_digit_year", raw: "15/03/2026", ok: true},
		{name: "dash_four_digit_year", raw: "15-03-2026", ok: true},
		{name: "slash_two_digit_year", raw: "15/03/26", ok: true},
		{name: "dash_two_digit_year", raw: "15-03-26", ok: true},
		{name: "padded", raw: "  15/03/2026  ", ok: true},
		{name: "garbage", raw: "not-a-date", ok: false},
		{name: "empty", raw: "", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseImportDate(tc.raw)
			if tc.ok != (err == nil) {
				t.Fatalf("parseImportDate(%q) err = %v, want ok=%v", tc.raw, err, tc.ok)
			}
			if err == nil && !got.Equal(want) {
				t.Fatalf("parseImportDate(%q) = %v, want %v", tc.raw, got, want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	acUnit := &types.Asset{ID: uuid.New(), Code: "AC-001", Location: "Building A", Active: true}
	assets := &fakeAssetRepo{assets: []*types.Asset{acUnit}}
	orders := &fakeWorkOrderRepo{}
	svc := newTestImporter(assets, orders)

	payload := "AC-001;15/03/2026;Troca de filtro\n" +
		"XX-999;15/03/2026;Equipamento desconhecido\n" +
		"AC-001;semana que vem;Data invalida\n" +
		"AC-001\n"

	preview, err := svc.Preview(context.Background(), []byte(payload))
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(preview.Rows) != 1 {
		t.Fatalf("preview has %d rows, want 1", len(preview.Rows))
	}
	row := preview.Rows[0]
	if row.AssetID != acUnit.ID || row.AssetCode != "AC-001" {
		t.Fatalf("row matched %s/%s, want AC-001", row.AssetID, row.AssetCode)
	}
	if !row.ScheduledDate.Equal(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("row date = %v, want 2026-03-15", row.ScheduledDate)
	}
	if row.Description != "Troca de filtro" {
		t.Fatalf("row description = %q", row.Description)
	}
	if preview.SkippedUnknownAsset != 1 {
		t.Fatalf("skipped_unknown_asset = %d, want 1", preview.SkippedUnknownAsset)
	}
	if preview.SkippedBadDate != 1 {
		t.Fatalf("skipped_bad_date = %d, want 1", preview.SkippedBadDate)
	}
	if preview.SkippedMalformed != 1 {
		t.Fatalf("skipped_malformed = %d, want 1", preview.SkippedMalformed)
	}
	if len(orders.orders) != 0 {
		t.Fatalf("preview wrote %d orders, preview must never write", len(orders.orders))
	}
}

func TestPreviewCommaDelimited(t *testing.T) {
	acUnit := &types.Asset{ID: uuid.New(), Code: "AC-001", Location: "Building A", Active: true}
	svc := newTestImporter(&fakeAssetRepo{assets: []*types.Asset{acUnit}}, &fakeWorkOrderRepo{})

	preview, err := svc.Preview(context.Background(), []byte("AC-001,2026-03-15,Inspecao\n"))
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(preview.Rows) != 1 {
		t.Fatalf("preview has %d rows, want 1", len(preview.Rows))
	}
}

func TestPreviewHeaderRowCountsAsSkip(t *testing.T) {
	acUnit := &types.Asset{ID: uuid.New(), Code: "AC-001", Location: "Building A", Active: true}
	svc := newTestImporter(&fakeAssetRepo{assets: []*types.Asset{acUnit}}, &fakeWorkOrderRepo{})

	preview, err := svc.Preview(context.Background(), []byte("codigo;data;descricao\nAC-001;15/03/2026;ok\n"))
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(preview.Rows) != 1 || preview.SkippedUnknownAsset != 1 {
		t.Fatalf("rows=%d unknown=%d, want 1/1", len(preview.Rows), preview.SkippedUnknownAsset)
	}
}

func TestPreviewEmptyPayload(t *testing.T) {
	svc := newTestImporter(&fakeAssetRepo{}, &fakeWorkOrderRepo{})
	if _, err := svc.Preview(context.Background(), []byte("   \n")); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("Preview error = %v, want ErrValidation", err)
	}
}

func TestCommit(t *testing.T) {
	acUnit := &types.Asset{ID: uuid.New(), Code: "AC-001", Location: "Building A", Active: true}
	orders := &fakeWorkOrderRepo{}
	svc := newTestImporter(&fakeAssetRepo{assets: []*types.Asset{acUnit}}, orders)
	ctx := context.Background()

	rows := []ImportRow{{
		Line:          1,
		AssetID:       acUnit.ID,
		AssetCode:     "AC-001",
		ScheduledDate: time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		Description:   "Troca de filtro",
		Priority:      types.OrderPriorityHigh,
	}}
	result, err := svc.Commit(ctx, rows, "tester")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("created %d, want 1", result.Created)
	}

	order := orders.orders[0]
	if order.OrderType != types.OrderTypePreventive || order.Status != types.OrderStatusPending {
		t.Fatalf("order = %s/%s, want preventive/pending", order.OrderType, order.Status)
	}
	if order.Priority != types.OrderPriorityHigh {
		t.Fatalf("operator-edited priority lost, got %s", order.Priority)
	}
	if order.Description != "Troca de filtro" {
		t.Fatalf("description = %q", order.Description)
	}
	if order.OrderNumber == "" {
		t.Fatalf("committed order has no order number")
	}
}

func TestCommitValidation(t *testing.T) {
	svc := newTestImporter(&fakeAssetRepo{}, &fakeWorkOrderRepo{})
	ctx := context.Background()

	if _, err := svc.Commit(ctx, nil, "tester"); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("empty commit error = %v, want ErrValidation", err)
	}
	bad := []ImportRow{{Line: 1, ScheduledDate: time.Now()}}
	if _, err := svc.Commit(ctx, bad, "tester"); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("missing asset commit error = %v, want ErrValidation", err)
	}
}
