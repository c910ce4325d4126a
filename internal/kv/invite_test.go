package kv

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestInviteCreateAndLookup(t *testing.T) {
	client, mr := setupRedis(t)
	s := NewInviteStore(client)
	ctx := context.Background()

	inv, err := s.Create(ctx, "h1", "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !sixDigits.MatchString(inv.InviteCode) {
		t.Errorf("code = %q, want six digits", inv.InviteCode)
	}
	if !mr.Exists("house_invite_" + inv.InviteCode) {
		t.Error("expected house_invite_{code} key")
	}
	if got, _ := mr.Get("house_code_h1"); got != inv.InviteCode {
		t.Errorf("house_code_h1 = %q, want %q", got, inv.InviteCode)
	}

	got, err := s.Lookup(ctx, inv.InviteCode)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got == nil || got.HouseID != "h1" || got.CreatedBy != "u1" {
		t.Errorf("lookup = %+v, want h1/u1", got)
	}

	cur, err := s.Current(ctx, "h1")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if cur == nil || cur.InviteCode != inv.InviteCode {
		t.Errorf("current = %+v, want %s", cur, inv.InviteCode)
	}
}

func TestInviteLookupMissing(t *testing.T) {
	client, _ := setupRedis(t)
	s := NewInviteStore(client)

	got, err := s.Lookup(context.Background(), "000000")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != nil {
		t.Errorf("lookup = %+v, want nil", got)
	}

	cur, err := s.Current(context.Background(), "nohouse")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if cur != nil {
		t.Errorf("current = %+v, want nil", cur)
	}
}

func TestInviteCreateRetriesOnCollision(t *testing.T) {
	client, _ := setupRedis(t)
	s := NewInviteStore(client)
	ctx := context.Background()

	codes := []string{"111111", "111111", "222222"}
	s.newCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}

	a, err := s.Create(ctx, "h1", "u1")
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := s.Create(ctx, "h2", "u2")
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if a.InviteCode != "111111" || b.InviteCode != "222222" {
		t.Errorf("codes = %s, %s, want 111111, 222222", a.InviteCode, b.InviteCode)
	}

	got, _ := s.Lookup(ctx, "111111")
	if got.HouseID != "h1" {
		t.Errorf("111111 house = %q, want h1", got.HouseID)
	}
}

func TestInviteCreateExhausted(t *testing.T) {
	client, _ := setupRedis(t)
	s := NewInviteStore(client)
	ctx := context.Background()
	s.newCode = func() (string, error) { return "123456", nil }

	if _, err := s.Create(ctx, "h1", "u1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, "h2", "u2"); !errors.Is(err, ErrCodeSpace) {
		t.Fatalf("err = %v, want ErrCodeSpace", err)
	}
}

func TestInviteRotate(t *testing.T) {
	client, _ := setupRedis(t)
	s := NewInviteStore(client)
	ctx := context.Background()

	old, err := s.Create(ctx, "h1", "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rotated, err := s.Rotate(ctx, "h1", "u1")
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if rotated.InviteCode == old.InviteCode {
		t.Fatal("expected a new code")
	}

	gone, err := s.Lookup(ctx, old.InviteCode)
	if err != nil {
		t.Fatalf("lookup old: %v", err)
	}
	if gone != nil {
		t.Error("old code still resolves")
	}
	cur, _ := s.Current(ctx, "h1")
	if cur == nil || cur.InviteCode != rotated.InviteCode {
		t.Errorf("current = %+v, want %s", cur, rotated.InviteCode)
	}
}
