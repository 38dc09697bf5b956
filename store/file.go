package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"keyword-shortener/config"
	"keyword-shortener/model"
)

const filePerm = 0o600

// FileStore keeps the canonical working copy of every mapping in memory and
// mirrors it to flat JSON files after every mutation: load once at open,
// save on write. A single mutex around each check-then-write makes the
// inserts behave as insert-if-absent under concurrent requests.
type FileStore struct {
	mu sync.Mutex

	linksPath    string
	usersPath    string
	messagesPath string

	links    map[string]model.LinkRecord
	users    map[string]string
	messages map[string]model.ContactMessage
}

// NewFileStore loads the persisted mappings from disk. A missing file means
// an empty mapping; a file that exists but does not parse is an error, so
// corruption is caught at startup instead of silently dropping data.
func NewFileStore(cfg config.StorageConfig) (*FileStore, error) {
	fs := &FileStore{
		linksPath:    cfg.URLsFile,
		usersPath:    cfg.UsersFile,
		messagesPath: cfg.MessagesFile,
		links:        make(map[string]model.LinkRecord),
		users:        make(map[string]string),
		messages:     make(map[string]model.ContactMessage),
	}

	if err := loadJSON(fs.linksPath, &fs.links); err != nil {
		return nil, fmt.Errorf("loading %s: %w", fs.linksPath, err)
	}
	if err := loadJSON(fs.usersPath, &fs.users); err != nil {
		return nil, fmt.Errorf("loading %s: %w", fs.usersPath, err)
	}
	if err := loadJSON(fs.messagesPath, &fs.messages); err != nil {
		return nil, fmt.Errorf("loading %s: %w", fs.messagesPath, err)
	}

	for keyword, link := range fs.links {
		link.Keyword = keyword
		fs.links[keyword] = link
	}

	log.Info().
		Str("urls_file", fs.linksPath).
		Str("users_file", fs.usersPath).
		Int("links", len(fs.links)).
		Int("users", len(fs.users)).
		Msg("File store loaded")

	return fs, nil
}

func (s *FileStore) PutLink(ctx context.Context, link model.LinkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.links[link.Keyword]; exists {
		return ErrKeywordTaken
	}
	s.links[link.Keyword] = link
	return saveJSON(s.linksPath, s.links)
}

func (s *FileStore) GetLink(ctx context.Context, keyword string) (model.LinkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, exists := s.links[keyword]
	if !exists {
		return model.LinkRecord{}, ErrNotFound
	}
	link.Keyword = keyword
	return link, nil
}

func (s *FileStore) LinksByOwner(ctx context.Context, owner string) ([]model.LinkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	links := make([]model.LinkRecord, 0)
	for keyword, link := range s.links {
		if link.Owner != owner {
			continue
		}
		link.Keyword = keyword
		links = append(links, link)
	}
	sortLinks(links)
	return links, nil
}

func (s *FileStore) PutUser(ctx context.Context, username, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return ErrUsernameTaken
	}
	s.users[username] = passwordHash
	return saveJSON(s.usersPath, s.users)
}

func (s *FileStore) GetUser(ctx context.Context, username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, exists := s.users[username]
	if !exists {
		return "", ErrNotFound
	}
	return hash, nil
}

func (s *FileStore) PutMessage(ctx context.Context, msg model.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[msg.ID] = msg
	return saveJSON(s.messagesPath, s.messages)
}

func (s *FileStore) Close() error {
	return nil
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// saveJSON overwrites the file with the full current mapping, going through
// a temp file plus rename so a crash mid-write cannot truncate it.
func saveJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func sortLinks(links []model.LinkRecord) {
	sort.Slice(links, func(i, j int) bool {
		if links[i].CreatedAt.Equal(links[j].CreatedAt) {
			return links[i].Keyword < links[j].Keyword
		}
		return links[i].CreatedAt.Before(links[j].CreatedAt)
	})
}
