package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"archiwum-zwojow/internal/database"
	"archiwum-zwojow/internal/models"
)

// ScrollService pilnuje wszystkich reguł cyklu życia zwoju.
// Tylko ono modyfikuje stan zwojów.
type ScrollService struct {
	store *database.Store
}

func NewScrollService(store *database.Store) *ScrollService {
	return &ScrollService{store: store}
}

func (s *ScrollService) List(ctx context.Context) ([]models.Scroll, error) {
	return s.store.ListScrolls(ctx)
}

func (s *ScrollService) Get(ctx context.Context, id int64) (*models.Scroll, error) {
	scroll, err := s.store.GetScrollByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if scroll == nil {
		return nil, ErrScrollNotFound
	}
	return scroll, nil
}

func (s *ScrollService) NameExists(ctx context.Context, name string) (bool, error) {
	return s.store.ScrollNameExists(ctx, name)
}

type CreateScrollParams struct {
	Owner    *models.User
	Name     string
	Content  []byte
	FileName string
	MimeType string
	Password string
}

func (s *ScrollService) Create(ctx context.Context, arg CreateScrollParams) (*models.Scroll, error) {
	name := strings.TrimSpace(arg.Name)
	if name == "" {
		return nil, ErrNameEmpty
	}

	exists, err := s.store.ScrollNameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrNameTaken
	}

	if len(arg.Content) == 0 {
		return nil, ErrFileEmpty
	}

	scroll, err := s.store.CreateScroll(ctx, database.CreateScrollParams{
		OwnerID:  arg.Owner.ID,
		Name:     name,
		Content:  arg.Content,
		FileName: arg.FileName,
		MimeType: arg.MimeType,
		Password: arg.Password,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateScrollName) {
			// wyścig z innym tworzeniem o tej samej nazwie
			return nil, ErrNameTaken
		}
		return nil, err
	}

	s.logEvent(ctx, arg.Owner.ID, "scroll_created", scroll)

	return scroll, nil
}

type EditScrollParams struct {
	ScrollID     int64
	ActingUserID int64
	Name         string
	// Content == nil oznacza brak nowego pliku; stara treść zostaje.
	Content  []byte
	FileName string
	MimeType string
	// Password == nil oznacza brak zmiany; pusty string zdejmuje ochronę.
	Password *string
}

func (s *ScrollService) Edit(ctx context.Context, arg EditScrollParams) (*models.Scroll, error) {
	scroll, err := s.store.GetScrollByID(ctx, arg.ScrollID)
	if err != nil {
		return nil, err
	}
	if scroll == nil {
		return nil, ErrScrollNotFound
	}
	if scroll.OwnerID != arg.ActingUserID {
		return nil, ErrNotOwner
	}

	newName := strings.TrimSpace(arg.Name)
	if newName == "" {
		return nil, ErrNameEmpty
	}
	if !strings.EqualFold(newName, scroll.Name) {
		exists, err := s.store.ScrollNameExists(ctx, newName)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrNameTaken
		}
	}

	err = s.store.ExecTx(ctx, func(q *database.Queries) error {
		if newName != scroll.Name {
			if _, err := q.RenameScroll(ctx, scroll.ID, newName); err != nil {
				if errors.Is(err, database.ErrDuplicateScrollName) {
					return ErrNameTaken
				}
				return err
			}
		}
		if len(arg.Content) > 0 {
			if _, err := q.ReplaceScrollContent(ctx, scroll.ID, arg.Content, arg.FileName, arg.MimeType); err != nil {
				return err
			}
		}
		if arg.Password != nil {
			if _, err := q.SetScrollPassword(ctx, scroll.ID, *arg.Password); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.store.GetScrollByID(ctx, scroll.ID)
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, arg.ActingUserID, "scroll_updated", updated)

	return updated, nil
}

// Delete usuwa zwój na stałe. Brak zwoju albo cudzy zwój to ciche nic —
// wołający i tak przekierowuje na listę.
func (s *ScrollService) Delete(ctx context.Context, scrollID int64, actingUserID int64) error {
	deleted, err := s.store.DeleteScrollOwned(ctx, scrollID, actingUserID)
	if err != nil {
		return err
	}
	if deleted {
		s.logEvent(ctx, actingUserID, "scroll_deleted", map[string]int64{"scroll_id": scrollID})
	}
	return nil
}

// Download sprawdza hasło i zwraca zwój z treścią. Licznik pobrań rośnie
// dokładnie o 1 na udane pobranie, zanim treść trafi do wołającego.
func (s *ScrollService) Download(ctx context.Context, scrollID int64, suppliedPassword string) (*models.Scroll, error) {
	scroll, err := s.store.RegisterDownload(ctx, scrollID, suppliedPassword)
	if err != nil {
		return nil, err
	}
	if scroll == nil {
		existing, err := s.store.GetScrollByID(ctx, scrollID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrScrollNotFound
		}
		return nil, ErrWrongPassword
	}

	s.logEvent(ctx, scroll.OwnerID, "scroll_downloaded", map[string]interface{}{
		"scroll_id": scroll.ID,
		"downloads": scroll.Downloads,
	})

	return scroll, nil
}

type SearchScrollsParams struct {
	OwnerID  *int64
	ScrollID *int64
	Name     string
	Start    *time.Time
	End      *time.Time
}

// Search stosuje filtry wg pierwszeństwa, nie łącznie: scrollId wygrywa
// ze wszystkim, potem uploader, potem nazwa, potem zakres dat.
func (s *ScrollService) Search(ctx context.Context, arg SearchScrollsParams) ([]models.Scroll, error) {
	if arg.ScrollID != nil {
		scroll, err := s.store.GetScrollByID(ctx, *arg.ScrollID)
		if err != nil {
			return nil, err
		}
		if scroll == nil {
			return []models.Scroll{}, nil
		}
		return []models.Scroll{*scroll}, nil
	}

	if arg.OwnerID != nil {
		return s.store.GetScrollsByOwner(ctx, *arg.OwnerID)
	}

	if arg.Name != "" {
		return s.store.SearchScrollsByName(ctx, arg.Name)
	}

	if arg.Start != nil && arg.End != nil {
		return s.store.GetScrollsCreatedBetween(ctx, *arg.Start, *arg.End)
	}

	return []models.Scroll{}, nil
}

func (s *ScrollService) ListByDownloads(ctx context.Context, sort string) ([]models.Scroll, error) {
	switch sort {
	case "asc":
		return s.store.ListScrollsByDownloads(ctx, false)
	case "desc":
		return s.store.ListScrollsByDownloads(ctx, true)
	default:
		return s.store.ListScrolls(ctx)
	}
}

// AdjustDownloads przesuwa licznik dla panelu admina; nigdy poniżej zera.
func (s *ScrollService) AdjustDownloads(ctx context.Context, scrollID int64, delta int64) error {
	ok, err := s.store.AdjustScrollDownloads(ctx, scrollID, delta)
	if err != nil {
		return err
	}
	if !ok {
		return ErrScrollNotFound
	}
	return nil
}

func (s *ScrollService) logEvent(ctx context.Context, userID int64, eventType string, payload interface{}) {
	if err := s.store.LogEvent(ctx, userID, eventType, payload); err != nil {
		log.Printf("WARN: failed to log event %s: %v", eventType, err)
	}
}
