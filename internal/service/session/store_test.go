package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"lorehub/internal/domain"
	"lorehub/internal/domain/models"
)

type fakeAPI struct {
	info  *models.UserInfo
	err   error
	calls int
}

func (f *fakeAPI) UserInfo(_ context.Context) (*models.UserInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	copied := *f.info
	return &copied, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchUserInfoPrefixesAvatar(t *testing.T) {
	tests := []struct {
		name   string
		avatar string
		want   string
	}{
		{"relative path prefixed", "/uploads/a.png", "https://cdn.example.com/uploads/a.png"},
		{"absolute url untouched", "https://elsewhere.com/a.png", "https://elsewhere.com/a.png"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{info: &models.UserInfo{Username: "u", Avatar: tt.avatar}}
			s := NewStore(api, "https://cdn.example.com", testLogger())

			info, err := s.FetchUserInfo(context.Background(), "sid")
			if err != nil {
				t.Fatalf("FetchUserInfo: %v", err)
			}
			if info.Avatar != tt.want {
				t.Errorf("avatar = %q, want %q", info.Avatar, tt.want)
			}
		})
	}
}

func TestFetchUserInfoCaches(t *testing.T) {
	api := &fakeAPI{info: &models.UserInfo{Username: "u"}}
	s := NewStore(api, "", testLogger())

	if _, err := s.FetchUserInfo(context.Background(), "sid"); err != nil {
		t.Fatalf("FetchUserInfo: %v", err)
	}
	if s.Current("sid") == nil {
		t.Fatal("profile not cached")
	}
	if s.Current("other") != nil {
		t.Error("cache leaked across sessions")
	}
}

func TestLogoutClearsCache(t *testing.T) {
	api := &fakeAPI{info: &models.UserInfo{Username: "u"}}
	s := NewStore(api, "", testLogger())

	if _, err := s.FetchUserInfo(context.Background(), "sid"); err != nil {
		t.Fatalf("FetchUserInfo: %v", err)
	}
	s.Logout("sid")
	if s.Current("sid") != nil {
		t.Error("profile survived logout")
	}
}

func TestCheckLoginStatus(t *testing.T) {
	t.Run("token without cache fetches", func(t *testing.T) {
		api := &fakeAPI{info: &models.UserInfo{Username: "u"}}
		s := NewStore(api, "", testLogger())

		info := s.CheckLoginStatus(context.Background(), "sid", true)
		if info == nil || api.calls != 1 {
			t.Fatalf("info = %v, calls = %d", info, api.calls)
		}
	})

	t.Run("cache without token logs out", func(t *testing.T) {
		api := &fakeAPI{info: &models.UserInfo{Username: "u"}}
		s := NewStore(api, "", testLogger())
		if _, err := s.FetchUserInfo(context.Background(), "sid"); err != nil {
			t.Fatalf("FetchUserInfo: %v", err)
		}

		info := s.CheckLoginStatus(context.Background(), "sid", false)
		if info != nil {
			t.Error("stale profile returned without a token")
		}
		if s.Current("sid") != nil {
			t.Error("stale profile not dropped")
		}
	})

	t.Run("cached and token returns cache without refetch", func(t *testing.T) {
		api := &fakeAPI{info: &models.UserInfo{Username: "u"}}
		s := NewStore(api, "", testLogger())
		if _, err := s.FetchUserInfo(context.Background(), "sid"); err != nil {
			t.Fatalf("FetchUserInfo: %v", err)
		}

		info := s.CheckLoginStatus(context.Background(), "sid", true)
		if info == nil {
			t.Fatal("cached profile not returned")
		}
		if api.calls != 1 {
			t.Errorf("calls = %d, want 1 (no refetch)", api.calls)
		}
	})

	t.Run("anonymous stays anonymous", func(t *testing.T) {
		api := &fakeAPI{err: domain.ErrUnauthorized}
		s := NewStore(api, "", testLogger())

		if info := s.CheckLoginStatus(context.Background(), "sid", false); info != nil {
			t.Error("anonymous session got a profile")
		}
		if api.calls != 0 {
			t.Errorf("calls = %d, want 0", api.calls)
		}
	})

	t.Run("fetch failure yields nil", func(t *testing.T) {
		api := &fakeAPI{err: errors.New("backend down")}
		s := NewStore(api, "", testLogger())

		if info := s.CheckLoginStatus(context.Background(), "sid", true); info != nil {
			t.Error("failed fetch returned a profile")
		}
	})
}
