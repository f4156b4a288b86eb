//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/Nenad034/OlympicHub-sub000/internal/domain"
	mysqlrepo "github.com/Nenad034/OlympicHub-sub000/internal/storage/mysql"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS price_lists (
  id                VARCHAR(64)  NOT NULL PRIMARY KEY,
  property_id       VARCHAR(64)  NOT NULL,
  name              VARCHAR(255) NOT NULL,
  valid_from        DATETIME     NOT NULL,
  valid_to          DATETIME     NOT NULL,
  validation_status VARCHAR(16)  NOT NULL,
  import_source     VARCHAR(255) NOT NULL DEFAULT '',
  doc               JSON         NOT NULL,
  updated_at        TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
  KEY idx_property (property_id, valid_from)
);
CREATE TABLE IF NOT EXISTS import_audit (
  id            BIGINT AUTO_INCREMENT PRIMARY KEY,
  session_id    VARCHAR(64)  NOT NULL,
  price_list_id VARCHAR(64)  NOT NULL,
  file_name     VARCHAR(255) NOT NULL,
  action        VARCHAR(16)  NOT NULL,
  reason        TEXT,
  actor         VARCHAR(64),
  created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=pricing",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/pricing?parseTime=true&multiStatements=true&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func TestRepo_PriceListRoundTrip(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	rules, err := domain.GeneratePricingRules(domain.RoomType{
		RoomTypeID: "rt-double", RoomTypeName: "Double",
		MinOccupancy: 1, MaxOccupancy: 3, MaxAdults: 2, MaxChildren: 1,
		BasicBeds: 1, BasicBedCapacity: 2, ExtraBeds: 1,
	}, domain.DefaultCategories(), false, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	pl := domain.PriceList{
		ID:               "pl-it-1",
		Name:             "Integration Summer",
		PropertyID:       "prop-it",
		ValidFrom:        time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:          time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		PersonCategories: domain.DefaultCategories(),
		ValidationStatus: domain.StatusPending,
	}
	pl.ReplaceRoomPricing(domain.RoomTypePricing{
		RoomTypeID: "rt-double", RoomTypeName: "Double", PricingRules: rules,
	})

	if err := repo.UpsertPriceList(ctx, pl); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetPriceList(ctx, "pl-it-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != pl.ID || got.PropertyID != pl.PropertyID || len(got.RoomTypePricing) != 1 {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if len(got.RoomTypePricing[0].PricingRules) != len(rules) {
		t.Fatalf("rules lost in round-trip: got %d want %d",
			len(got.RoomTypePricing[0].PricingRules), len(rules))
	}

	// Upsert again with a status change: last write wins.
	pl.ValidationStatus = domain.StatusApproved
	if err := repo.UpsertPriceList(ctx, pl); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, err = repo.GetPriceList(ctx, "pl-it-1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.ValidationStatus != domain.StatusApproved {
		t.Fatalf("status not updated: %s", got.ValidationStatus)
	}

	lists, err := repo.ListPriceLists(ctx, "prop-it")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("expected 1 list, got %d", len(lists))
	}

	if _, err := repo.GetPriceList(ctx, "missing"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.AppendImportAudit(ctx, domain.ImportAudit{
		SessionID: "sess-1", PriceListID: "pl-it-1", FileName: "rates.xlsx",
		Action: "rejected", Reason: "wrong season", Actor: "tester",
	}); err != nil {
		t.Fatalf("audit: %v", err)
	}
}
