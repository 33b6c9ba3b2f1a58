package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	projectsBucket = []byte("projects")
	// viewedBucket indexes projects by view time: 8 byte big-endian unix
	// nanos followed by the article id, value is the article id.
	viewedBucket = []byte("viewed")
)

// Store is the bbolt backed ProjectStore.
type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = 1 * time.Second
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{projectsBucket, viewedBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func viewedKey(t time.Time, articleID string) []byte {
	key := make([]byte, 8+len(articleID))
	nanos := t.UnixNano()
	if nanos < 0 {
		nanos = 0
	}
	binary.BigEndian.PutUint64(key, uint64(nanos))
	copy(key[8:], articleID)
	return key
}

func getProject(b *bolt.Bucket, articleID string) (*Project, error) {
	data := b.Get([]byte(articleID))
	if data == nil {
		return nil, nil
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding project %s: %w", articleID, err)
	}
	return &p, nil
}

func putProject(b *bolt.Bucket, p *Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return b.Put([]byte(p.ArticleID), data)
}

func (s *Store) Upsert(p *Project) (*Project, error) {
	if p == nil || p.ArticleID == "" {
		return nil, fmt.Errorf("upsert: article id is required")
	}

	stored := *p
	if stored.ViewedAt.IsZero() {
		stored.ViewedAt = time.Now()
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		projects := tx.Bucket(projectsBucket)
		viewed := tx.Bucket(viewedBucket)

		existing, err := getProject(projects, stored.ArticleID)
		if err != nil {
			return err
		}
		if existing != nil {
			stored.IsFavorite = existing.IsFavorite
			if err := viewed.Delete(viewedKey(existing.ViewedAt, existing.ArticleID)); err != nil {
				return err
			}
		}

		if err := putProject(projects, &stored); err != nil {
			return err
		}
		return viewed.Put(viewedKey(stored.ViewedAt, stored.ArticleID), []byte(stored.ArticleID))
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *Store) ToggleFavorite(articleID string) (bool, error) {
	var favorite bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(projectsBucket)
		p, err := getProject(b, articleID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, articleID)
		}
		p.IsFavorite = !p.IsFavorite
		favorite = p.IsFavorite
		return putProject(b, p)
	})
	return favorite, err
}

func (s *Store) IsFavorite(articleID string) (bool, error) {
	var favorite bool
	err := s.db.View(func(tx *bolt.Tx) error {
		p, err := getProject(tx.Bucket(projectsBucket), articleID)
		if p != nil {
			favorite = p.IsFavorite
		}
		return err
	})
	return favorite, err
}

func (s *Store) GetProject(articleID string) (*Project, error) {
	var project *Project
	err := s.db.View(func(tx *bolt.Tx) error {
		p, err := getProject(tx.Bucket(projectsBucket), articleID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, articleID)
		}
		project = p
		return nil
	})
	return project, err
}

func (s *Store) ListRecents(limit, offset int) ([]*Project, error) {
	return s.walkRecent(limit, offset, nil)
}

func (s *Store) ListFavorites() ([]*Project, error) {
	return s.walkRecent(0, 0, func(p *Project) bool { return p.IsFavorite })
}

// walkRecent visits projects newest first through the viewed index.
func (s *Store) walkRecent(limit, offset int, keep func(*Project) bool) ([]*Project, error) {
	projects := []*Project{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(projectsBucket)
		c := tx.Bucket(viewedBucket).Cursor()

		skipped := 0
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			p, err := getProject(b, string(v))
			if err != nil {
				return err
			}
			if p == nil || (keep != nil && !keep(p)) {
				continue
			}
			if skipped < offset {
				skipped++
				continue
			}
			projects = append(projects, p)
			if limit > 0 && len(projects) >= limit {
				break
			}
		}
		return nil
	})
	return projects, err
}
