package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	branchRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/branch"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с существующими записями
type Service struct {
	appointmentRepo AppointmentRepository
	branchRepo      BranchRepository
	serviceRepo     ServiceRepository
	customerRepo    CustomerRepository
	consultantRepo  ConsultantRepository
	availability    AvailabilityChecker
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	branchRepo BranchRepository,
	serviceRepo ServiceRepository,
	customerRepo CustomerRepository,
	consultantRepo ConsultantRepository,
	availability AvailabilityChecker,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		branchRepo:      branchRepo,
		serviceRepo:     serviceRepo,
		customerRepo:    customerRepo,
		consultantRepo:  consultantRepo,
		availability:    availability,
		logger:          logger,
	}
}

// GetByID получает запись по ID вместе с филиалом, услугой, клиентом и консультантом
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetByID", err)
	}

	details, err := s.hydrate(ctx, appointment)
	if err != nil {
		s.logger.Error("GetByID: failed to load details of appointment id=%d: %v", id, err)
		return nil, err
	}

	return models.FromDomainDetails(details), nil
}

// GetByCode получает запись по коду подтверждения
func (s *Service) GetByCode(ctx context.Context, code string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByCode: fetching appointment code=%s", code)

	appointment, err := s.appointmentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, s.mapRepoError("GetByCode", err)
	}

	details, err := s.hydrate(ctx, appointment)
	if err != nil {
		s.logger.Error("GetByCode: failed to load details of appointment code=%s: %v", code, err)
		return nil, err
	}

	return models.FromDomainDetails(details), nil
}

// Cancel отменяет запись.
// Повторная отмена уже отмененной записи возвращает true без записи в БД.
// Завершенную запись (completed / no_show) отменить нельзя.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) (bool, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d", id)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancelReasonLength {
		return false, fmt.Errorf("%w: cancellation reason must be at most %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return false, s.mapRepoError("Cancel", err)
	}

	if appointment.IsCancelled() {
		s.logger.Info("Cancel: appointment id=%d is already cancelled", id)
		return true, nil
	}

	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appointment.Status)
		return false, domain.ErrCannotCancel
	}

	if err := s.appointmentRepo.Cancel(ctx, id, req.CancellationReason); err != nil {
		if !errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
			return false, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Статус успел измениться между чтением и обновлением
		current, getErr := s.appointmentRepo.GetByID(ctx, id)
		if getErr != nil {
			return false, s.mapRepoError("Cancel", getErr)
		}
		if current.IsCancelled() {
			return true, nil
		}
		return false, domain.ErrCannotCancel
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return true, nil
}

// UpdateStatus переводит запись в completed или no_show
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s", id, req.Status)

	newStatus, ok := models.ToDomainFinalStatus(req.Status)
	if !ok {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return fmt.Errorf("%w: status must be one of completed, no_show", ErrInvalidInput)
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return s.mapRepoError("UpdateStatus", err)
	}

	if !appointment.CanBeCancelled() {
		s.logger.Warn("UpdateStatus: appointment id=%d has final status=%s", id, appointment.Status)
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, appointment.Status, newStatus)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return fmt.Errorf("%w: status changed concurrently", domain.ErrInvalidStatusTransition)
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", id, newStatus)
	return nil
}

// IsSlotAvailable проверяет, свободен ли хотя бы один консультант филиала на интервал
func (s *Service) IsSlotAvailable(ctx context.Context, req *models.SlotAvailabilityRequest) (*models.SlotAvailabilityResponse, error) {
	s.logger.Info("IsSlotAvailable: branch=%d, date=%s, %s-%s",
		req.BranchID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	if req.BranchID <= 0 || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: branchId and date are required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: start: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: end: %v", ErrInvalidInput, err)
	}
	if !req.StartTime.IsBefore(req.EndTime) {
		return nil, fmt.Errorf("%w: start must be before end", ErrInvalidInput)
	}

	if _, err := s.branchRepo.GetByID(ctx, req.BranchID); err != nil {
		if errors.Is(err, branchRepo.ErrBranchNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("%w: IsSlotAvailable - get branch: %v", ErrInternal, err)
	}

	available, err := s.availability.IsSlotAvailable(ctx, req.BranchID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		s.logger.Error("IsSlotAvailable: failed for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: IsSlotAvailable: %v", ErrInternal, err)
	}

	return &models.SlotAvailabilityResponse{
		BranchID:    req.BranchID,
		Date:        req.Date.Format(domain.DateFormat),
		StartTime:   req.StartTime.String(),
		EndTime:     req.EndTime.String(),
		IsAvailable: available,
	}, nil
}

// Вспомогательные методы

func (s *Service) mapRepoError(op string, err error) error {
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Warn("%s: appointment not found", op)
		return ErrAppointmentNotFound
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// hydrate подгружает связанные записи
func (s *Service) hydrate(ctx context.Context, a *domain.Appointment) (*domain.AppointmentDetails, error) {
	details := &domain.AppointmentDetails{Appointment: *a}

	branch, err := s.branchRepo.GetByID(ctx, a.BranchID)
	if err != nil {
		return nil, fmt.Errorf("%w: hydrate - branch=%d: %v", ErrInternal, a.BranchID, err)
	}
	details.Branch = branch

	service, err := s.serviceRepo.GetByID(ctx, a.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: hydrate - service=%d: %v", ErrInternal, a.ServiceID, err)
	}
	details.Service = service

	customer, err := s.customerRepo.GetByID(ctx, a.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("%w: hydrate - customer=%d: %v", ErrInternal, a.CustomerID, err)
	}
	details.Customer = customer

	if a.ConsultantID != nil {
		consultant, err := s.consultantRepo.GetByID(ctx, *a.ConsultantID)
		if err != nil {
			return nil, fmt.Errorf("%w: hydrate - consultant=%d: %v", ErrInternal, *a.ConsultantID, err)
		}
		details.Consultant = consultant
	}

	return details, nil
}
