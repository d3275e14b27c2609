package bahee

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"vigat-bahee/internal/config"
	"vigat-bahee/internal/db"
	baheedomain "vigat-bahee/internal/domain/bahee"
	"vigat-bahee/internal/domain/tithi"
	"vigat-bahee/pkg/logger"

	"github.com/google/uuid"
)

const ownerID = "00000000-0000-0000-0000-000000000001"

func newSQLiteRepo(t *testing.T) *PostgresRepository {
	t.Helper()
	gormDB, err := db.NewSQLite(config.DBConfig{SQLitePath: filepath.Join(t.TempDir(), "bahee.db")}, logger.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gormDB) })
	if err := db.AutoMigrate(gormDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewPostgres(gormDB)
}

func newService(t *testing.T, repo baheedomain.Repository) *baheedomain.Service {
	t.Helper()
	table, err := tithi.DefaultTable()
	if err != nil {
		t.Fatalf("tithi table: %v", err)
	}
	today := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	return baheedomain.NewService(repo, tithi.NewResolver(table)).WithClock(func() time.Time { return today })
}

func seed(t *testing.T, svc *baheedomain.Service) (*baheedomain.Header, *baheedomain.Entry) {
	t.Helper()
	ctx := context.Background()
	header, err := svc.CreateHeader(ctx, baheedomain.CreateHeaderInput{
		OwnerID:  ownerID,
		Category: "wedding",
		Name:     "Ramesh ji",
		Date:     time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create header: %v", err)
	}
	amount := 51.0
	entry, err := svc.CreateEntry(ctx, baheedomain.EntryInput{
		OwnerID:    ownerID,
		Category:   "wedding",
		HeaderName: header.Name,
		Name:       "Mohan",
		FatherName: "Shyam",
		Village:    "Nokha",
		Caste:      "Jat",
		Income:     500,
		Amount:     &amount,
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	return header, entry
}

func TestHeaderUniqueIndex(t *testing.T) {
	repo := newSQLiteRepo(t)
	header, _ := seed(t, newService(t, repo))

	dup := *header
	dup.ID = uuid.NewString()
	if err := repo.CreateHeader(context.Background(), &dup); !errors.Is(err, baheedomain.ErrHeaderExists) {
		t.Fatalf("expected ErrHeaderExists from index, got %v", err)
	}
}

func TestListEntriesSearchAndPaging(t *testing.T) {
	repo := newSQLiteRepo(t)
	svc := newService(t, repo)
	header, _ := seed(t, svc)

	if _, err := svc.CreateEntry(context.Background(), baheedomain.EntryInput{
		OwnerID: ownerID, Category: "wedding", HeaderName: header.Name, Name: "Sohan", Village: "Deshnok", Income: 100,
	}); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	entries, total, err := repo.ListEntries(context.Background(), ownerID, baheedomain.EntryFilter{Search: "NOK"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 2 || len(entries) != 2 {
		t.Fatalf("expected both villages to match, got %d", total)
	}

	entries, total, err = repo.ListEntries(context.Background(), ownerID, baheedomain.EntryFilter{Search: "shy"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 1 || entries[0].Name != "Mohan" {
		t.Fatalf("expected father name match, got %+v", entries)
	}

	entries, total, err = repo.ListEntries(context.Background(), ownerID, baheedomain.EntryFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 2 || len(entries) != 1 || entries[0].Name != "Sohan" {
		t.Fatalf("unexpected page %+v (total %d)", entries, total)
	}

	if _, total, _ := repo.ListEntries(context.Background(), ownerID, baheedomain.EntryFilter{Search: "%"}); total != 0 {
		t.Fatalf("expected literal percent to match nothing, got %d", total)
	}
}

func TestRecordReturnNetPersists(t *testing.T) {
	repo := newSQLiteRepo(t)
	svc := newService(t, repo)
	_, entry := seed(t, svc)
	ctx := context.Background()

	_, err := svc.RecordReturnNet(ctx, baheedomain.ReturnNetInput{
		OwnerID: ownerID, EntryID: entry.ID, Description: "returned", Confirmed: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	detail, err := svc.GetEntry(ctx, ownerID, entry.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if detail.State != baheedomain.LockStateLocked || detail.ReturnNet == nil {
		t.Fatalf("expected locked entry with log, got %+v", detail)
	}
	if detail.Entry.Amount == nil || *detail.Entry.Amount != 51 {
		t.Fatalf("expected amount to round-trip, got %v", detail.Entry.Amount)
	}

	ok, err := repo.UpdateUnlockedEntry(ctx, &detail.Entry)
	if err != nil || ok {
		t.Fatalf("expected conditional update to skip locked row, got ok=%v err=%v", ok, err)
	}
	ok, err = repo.DeleteUnlockedEntry(ctx, ownerID, entry.ID)
	if err != nil || ok {
		t.Fatalf("expected conditional delete to skip locked row, got ok=%v err=%v", ok, err)
	}
	ok, err = repo.LockEntry(ctx, ownerID, entry.ID, time.Now(), "again")
	if err != nil || ok {
		t.Fatalf("expected second swap to fail, got ok=%v err=%v", ok, err)
	}
}

func TestRecordReturnNetRollsBackOnLogConflict(t *testing.T) {
	repo := newSQLiteRepo(t)
	svc := newService(t, repo)
	_, entry := seed(t, svc)
	ctx := context.Background()

	// A stray log for the entry makes the insert fail after the lock write.
	stray := baheedomain.ReturnNetLog{
		ID:          uuid.NewString(),
		EntryKey:    entry.ID,
		OwnerID:     ownerID,
		Category:    entry.Category,
		Name:        entry.Name,
		Date:        time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC),
		Description: "stray",
		Confirmed:   true,
	}
	if err := repo.CreateReturnNetLog(ctx, &stray); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	_, err := svc.RecordReturnNet(ctx, baheedomain.ReturnNetInput{
		OwnerID: ownerID, EntryID: entry.ID, Description: "returned", Confirmed: true,
	})
	if !errors.Is(err, baheedomain.ErrConcurrentLockRace) {
		t.Fatalf("expected ErrConcurrentLockRace, got %v", err)
	}

	got, err := repo.GetEntry(ctx, ownerID, entry.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Locked {
		t.Fatalf("expected lock write to be rolled back")
	}
}

func TestRecordReturnNetConcurrentSQLite(t *testing.T) {
	repo := newSQLiteRepo(t)
	svc := newService(t, repo)
	_, entry := seed(t, svc)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordReturnNet(context.Background(), baheedomain.ReturnNetInput{
				OwnerID: ownerID, EntryID: entry.ID, Description: "returned", Confirmed: true,
			})
			if err != nil && !errors.Is(err, baheedomain.ErrEntryLocked) && !errors.Is(err, baheedomain.ErrConcurrentLockRace) {
				t.Errorf("unexpected error %v", err)
			}
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected one success, got %d", successes)
	}
	if _, err := repo.GetReturnNetLog(context.Background(), ownerID, entry.ID); err != nil {
		t.Fatalf("expected log, got %v", err)
	}
}

func TestInvalidIDsAreNotFound(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	if _, err := repo.GetEntry(ctx, ownerID, "nope"); !errors.Is(err, baheedomain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	if _, err := repo.GetHeader(ctx, ownerID, "nope"); !errors.Is(err, baheedomain.ErrHeaderNotFound) {
		t.Fatalf("expected ErrHeaderNotFound, got %v", err)
	}
}
