package repository

import (
	"testing"
)

func TestBuildLikeConditionByDialect(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("sqlite", []string{"name", " ", "slug"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if condition != "name LIKE ? OR slug LIKE ?" {
		t.Fatalf("unexpected sqlite condition: %s", condition)
	}

	condition, _ = buildLikeConditionByDialect("postgres", []string{"name"})
	if condition != "name ILIKE ?" {
		t.Fatalf("unexpected postgres condition: %s", condition)
	}
}

func TestDayExprByDialect(t *testing.T) {
	if got := dayExprByDialect("sqlite", "created_at"); got != "CAST(date(created_at) AS TEXT)" {
		t.Fatalf("unexpected sqlite day expr: %s", got)
	}
	if got := dayExprByDialect("postgres", "created_at"); got != "to_char(created_at, 'YYYY-MM-DD')" {
		t.Fatalf("unexpected postgres day expr: %s", got)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%linen%", 3)
	if len(args) != 3 {
		t.Fatalf("want 3 args got %d", len(args))
	}
	for _, arg := range args {
		if arg != "%linen%" {
			t.Fatalf("unexpected arg: %v", arg)
		}
	}
}

func TestDBDialectNameDefaultsToSQLite(t *testing.T) {
	if got := dbDialectName(nil); got != "sqlite" {
		t.Fatalf("unexpected default dialect: %s", got)
	}
	if isPostgres(nil) {
		t.Fatalf("nil db should not be postgres")
	}
}

func TestJSONTextExprByDialect(t *testing.T) {
	if got := jsonTextExprByDialect("sqlite", "product_snapshot", "name"); got != "json_extract(product_snapshot, '$.name')" {
		t.Fatalf("unexpected sqlite json expr: %s", got)
	}
	if got := jsonTextExprByDialect("postgres", "product_snapshot", "name"); got != "(product_snapshot::jsonb ->> 'name')" {
		t.Fatalf("unexpected postgres json expr: %s", got)
	}
}
