package catalog

import (
	"context"
	"testing"

	"github.com/yungbote/amelfit-backend/internal/data/repos/testutil"
	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/domain/catalog"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
)

func TestPurchaseRepoCreateIfAbsentIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "buyer@example.com")
	c := testutil.SeedCourse(t, ctx, tx, "Yoga Détente", "Yoga")
	repo := NewPurchaseRepo(db, testutil.Logger(t))

	mk := func() *types.Purchase {
		return &types.Purchase{
			UserID:        u.ID,
			CourseID:      c.ID,
			CourseTitle:   c.Title,
			Amount:        c.Price,
			PaymentMethod: catalog.PaymentMethodStripe,
			ProviderRef:   "cs_test_1",
			Status:        catalog.PurchaseStatusCompleted,
		}
	}
	first, created, err := repo.CreateIfAbsent(dbc, mk())
	if err != nil || !created {
		t.Fatalf("first CreateIfAbsent: created=%v err=%v", created, err)
	}
	second, created, err := repo.CreateIfAbsent(dbc, mk())
	if err != nil || created {
		t.Fatalf("second CreateIfAbsent: created=%v err=%v", created, err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected existing purchase, got %s want %s", second.ID, first.ID)
	}

	has, err := repo.HasCompleted(dbc, u.ID, c.ID)
	if err != nil || !has {
		t.Fatalf("HasCompleted: has=%v err=%v", has, err)
	}
	list, _ := repo.ListCompletedByUser(dbc, u.ID)
	if len(list) != 1 {
		t.Fatalf("ListCompletedByUser: want=1 got=%d", len(list))
	}
}

func TestCourseRepoCategories(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCourseRepo(db, testutil.Logger(t))

	testutil.SeedCourse(t, ctx, tx, "A", "Cardio")
	testutil.SeedCourse(t, ctx, tx, "B", "Cardio")
	testutil.SeedCourse(t, ctx, tx, "C", "Yoga")

	cats, err := repo.Categories(dbc)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	seen := map[string]int{}
	for _, c := range cats {
		seen[c]++
	}
	if seen["Cardio"] != 1 || seen["Yoga"] != 1 {
		t.Fatalf("Categories: expected distinct values, got %v", cats)
	}
	cardio, _ := repo.List(dbc, "Cardio")
	if len(cardio) < 2 {
		t.Fatalf("List(Cardio): want>=2 got=%d", len(cardio))
	}
}
