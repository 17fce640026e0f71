package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/repository"
	"github.com/imperiopizzas/imperio-backend/pkg/logger"
	"gorm.io/gorm"
)

var tablePathPattern = regexp.MustCompile(`^/m(\d+)(?:/|$)`)

// OriginResolution is the outcome of classifying one request.
type OriginResolution struct {
	// Origin is nil when the request gets no assignment at all.
	Origin *model.Origin
	// Persist is set when Origin came from a table link and should be
	// stored for the rest of the browsing session.
	Persist bool
}

// OriginService decides whether a visitor orders from a table or from
// outside. A table link scanned earlier in the session keeps the visitor
// internal until another valid table link replaces it.
type OriginService interface {
	Resolve(ctx context.Context, path string, session *model.Origin) (OriginResolution, error)
}

type originService struct {
	tableRepo        repository.TableRepository
	excludedPrefixes []string
}

func NewOriginService(tableRepo repository.TableRepository, excludedPrefixes []string) OriginService {
	return &originService{
		tableRepo:        tableRepo,
		excludedPrefixes: excludedPrefixes,
	}
}

// TableNumberFromPath extracts N from /mN paths.
func TableNumberFromPath(path string) (int, bool) {
	m := tablePathPattern.FindStringSubmatch(path)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (s *originService) Resolve(ctx context.Context, path string, session *model.Origin) (OriginResolution, error) {
	if number, ok := TableNumberFromPath(path); ok {
		table, err := s.tableRepo.FindActiveByNumber(ctx, number)
		switch {
		case err == nil:
			origin := model.InternalOrigin(table.ID, table.TableNumber)
			logger.Info("Table origin resolved", map[string]interface{}{
				"table_id":     table.ID,
				"table_number": table.TableNumber,
			})
			return OriginResolution{Origin: &origin, Persist: true}, nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			logger.Warn("Unknown or inactive table in path", map[string]interface{}{
				"table_number": number,
			})
		default:
			logger.Error("Failed to resolve table origin", err, map[string]interface{}{
				"table_number": number,
			})
			return OriginResolution{}, err
		}
	}

	if session != nil && session.Kind != "" {
		origin := *session
		return OriginResolution{Origin: &origin}, nil
	}

	if s.isExcluded(path) {
		return OriginResolution{}, nil
	}

	origin := model.ExternalOrigin()
	return OriginResolution{Origin: &origin}, nil
}

func (s *originService) isExcluded(path string) bool {
	for _, prefix := range s.excludedPrefixes {
		prefix = strings.TrimRight(prefix, "/")
		if prefix == "" {
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
