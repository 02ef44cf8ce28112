package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"pet-health-records/internal/domain/logs"
	"pet-health-records/internal/domain/pets"
	"pet-health-records/internal/domain/records"
	"pet-health-records/internal/domain/reminders"
	"pet-health-records/internal/platform/logger"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingPet      = errors.New("pet not found")
	ErrMissingLocation = errors.New("location required")
	ErrUpstream        = errors.New("report service failed")

	// ErrInFlight indica que ya hay un generate corriendo para ese pet.
	// El segundo intento se descarta (no se encola ni cancela al primero).
	ErrInFlight = errors.New("report generation already in flight")
)

// Service agrega el historial completo del pet y delega la síntesis del
// reporte al servicio externo. No persiste nada: el HealthReport es
// transitorio por contrato.
type Service struct {
	pets      *pets.Service
	records   records.Repository
	logs      logs.Repository
	reminders reminders.Repository
	upstream  Upstream
	log       logger.Logger

	mu       sync.Mutex
	inFlight map[string]bool // petID -> generate pendiente
}

func NewService(
	petsSvc *pets.Service,
	recordsRepo records.Repository,
	logsRepo logs.Repository,
	remindersRepo reminders.Repository,
	upstream Upstream,
	log logger.Logger,
) *Service {
	return &Service{
		pets:      petsSvc,
		records:   recordsRepo,
		logs:      logsRepo,
		reminders: remindersRepo,
		upstream:  upstream,
		log:       log,
		inFlight:  map[string]bool{},
	}
}

// Generate sintetiza el reporte de salud del pet.
//
// Precondiciones (se chequean ANTES de cualquier llamada de red):
//   - el pet existe y pertenece al owner => si no, ErrMissingPet
//   - hay geolocalización => si no, ErrMissingLocation (falla cerrado)
//
// Gate por pet: a lo sumo un generate en vuelo; el segundo recibe
// ErrInFlight sin tocar al primero. Sin retry automático.
func (s *Service) Generate(ctx context.Context, petID, ownerUserID string, loc *Location) (Outcome, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(ownerUserID) == "" {
		return Outcome{}, ErrInvalidInput
	}

	if !s.tryAcquire(petID) {
		return Outcome{}, ErrInFlight
	}
	defer s.release(petID)

	// Perfil canónico desde el store, no una copia en memoria del caller.
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil || pet.OwnerUserID != ownerUserID {
		return Outcome{}, ErrMissingPet
	}

	if loc == nil {
		return Outcome{}, ErrMissingLocation
	}

	if s.upstream == nil {
		return Outcome{}, fmt.Errorf("%w: not configured", ErrUpstream)
	}

	recs, err := s.records.ListByPet(ctx, petID, ownerUserID)
	if err != nil {
		return Outcome{}, fmt.Errorf("list records: %w", err)
	}
	rems, err := s.reminders.ListByPet(ctx, petID, ownerUserID)
	if err != nil {
		return Outcome{}, fmt.Errorf("list reminders: %w", err)
	}
	lgs, err := s.logs.ListByPet(ctx, petID, ownerUserID)
	if err != nil {
		return Outcome{}, fmt.Errorf("list logs: %w", err)
	}

	out, err := s.upstream.Generate(ctx, Payload{
		Pet:       pet,
		Records:   recs,
		Reminders: rems,
		Logs:      lgs,
		Location:  *loc,
	})
	if err != nil {
		s.log.Warn("report upstream failed", map[string]any{
			"pet_id": petID,
			"error":  err.Error(),
		})
		return Outcome{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if out.Report == nil && len(out.PDF) == 0 {
		return Outcome{}, fmt.Errorf("%w: empty response", ErrUpstream)
	}

	s.log.Info("health report generated", map[string]any{
		"pet_id":    petID,
		"records":   len(recs),
		"reminders": len(rems),
		"logs":      len(lgs),
		"as_pdf":    out.Report == nil,
	})

	return out, nil
}

func (s *Service) tryAcquire(petID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[petID] {
		return false
	}
	s.inFlight[petID] = true
	return true
}

func (s *Service) release(petID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, petID)
}
