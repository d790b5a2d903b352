// Package seed loads YAML fixture files and writes them through the services.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"recordpager/internal/domain"

	"gopkg.in/yaml.v3"
)

const (
	// MaxGenerate bounds Collection.Generate.
	MaxGenerate = 100_000
	// batchSize is the number of records sent per AddRecords call.
	batchSize = 500
)

// File is the top-level seed document.
type File struct {
	OwnerEmail    string       `yaml:"owner_email"`
	OwnerName     string       `yaml:"owner_name"`
	OwnerPassword string       `yaml:"owner_password"`
	Collections   []Collection `yaml:"collections"`
}

// Collection is one collection to create. Generate appends that many
// numbered placeholder records after the explicit ones.
type Collection struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Records     []Record `yaml:"records"`
	Generate    int      `yaml:"generate"`
}

// Record is one record to append.
type Record struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Result counts what Apply wrote.
type Result struct {
	OwnerID     string
	Collections int
	Records     int
}

func LoadFromFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed YAML: %w", err)
	}
	if strings.TrimSpace(f.OwnerEmail) == "" {
		return nil, errors.New("seed has no owner_email")
	}
	if len(f.Collections) == 0 {
		return nil, errors.New("seed has no collections")
	}
	for i, c := range f.Collections {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("collection at index %d has no name", i)
		}
		if c.Generate < 0 {
			return nil, fmt.Errorf("collection %q: generate must not be negative", c.Name)
		}
		if c.Generate > MaxGenerate {
			return nil, fmt.Errorf("collection %q: generate must be at most %d", c.Name, MaxGenerate)
		}
		for j, r := range c.Records {
			if strings.TrimSpace(r.Title) == "" {
				return nil, fmt.Errorf("collection %q: record at index %d has no title", c.Name, j)
			}
		}
	}
	return &f, nil
}

// Seeder applies seed files.
type Seeder struct {
	users  domain.UserRepository
	auth   domain.AuthService
	browse domain.BrowseService
	logger *slog.Logger
}

func NewSeeder(users domain.UserRepository, auth domain.AuthService, browse domain.BrowseService, logger *slog.Logger) *Seeder {
	return &Seeder{users: users, auth: auth, browse: browse, logger: logger}
}

// Apply creates the owner when missing (which needs owner_password), then
// every collection with its records in file order.
func (s *Seeder) Apply(ctx context.Context, f *File) (*Result, error) {
	owner, err := s.owner(ctx, f)
	if err != nil {
		return nil, err
	}
	res := &Result{OwnerID: owner.ID}
	for _, c := range f.Collections {
		collection, err := s.browse.CreateCollection(ctx, owner.ID, c.Name, c.Description)
		if err != nil {
			return res, fmt.Errorf("collection %q: %w", c.Name, err)
		}
		res.Collections++

		total := len(c.Records) + c.Generate
		added := 0
		for lo := 0; lo < total; lo += batchSize {
			n, err := s.browse.AddRecords(ctx, collection.ID, owner.ID, recordsBetween(c, lo, min(lo+batchSize, total)))
			added += n
			res.Records += n
			if err != nil {
				return res, fmt.Errorf("collection %q: %w", c.Name, err)
			}
		}
		s.logger.InfoContext(ctx, "seeded collection", "collection_id", collection.ID, "name", collection.Name, "records", added)
	}
	return res, nil
}

func (s *Seeder) owner(ctx context.Context, f *File) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(f.OwnerEmail))
	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("look up owner: %w", err)
	}
	if f.OwnerPassword == "" {
		return nil, fmt.Errorf("owner %s does not exist and owner_password is empty", email)
	}
	user, err = s.auth.SignUp(ctx, email, f.OwnerPassword, f.OwnerName)
	if err != nil {
		return nil, fmt.Errorf("create owner: %w", err)
	}
	s.logger.InfoContext(ctx, "created seed owner", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// recordsBetween returns records [lo, hi) of c: the explicit records first,
// then generated "<name> #<n>" placeholders numbered from 1 across both.
func recordsBetween(c Collection, lo, hi int) []*domain.Record {
	out := make([]*domain.Record, 0, hi-lo)
	for i := lo; i < hi; i++ {
		if i < len(c.Records) {
			out = append(out, &domain.Record{Title: c.Records[i].Title, Body: c.Records[i].Body})
			continue
		}
		out = append(out, &domain.Record{Title: fmt.Sprintf("%s #%d", c.Name, i+1)})
	}
	return out
}
