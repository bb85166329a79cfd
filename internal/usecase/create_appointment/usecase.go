package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	branchRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/branch"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для создания записи
type UseCase struct {
	serviceRepo     ServiceRepository
	branchRepo      BranchRepository
	customerRepo    CustomerRepository
	appointmentRepo AppointmentRepository
	hours           HoursResolver
	guard           CustomerGuard
	availability    AvailabilityChecker
	assigner        ConsultantAssigner
	codes           CodeGenerator
	txManager       TransactionManager
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	maxDaysAhead    int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	serviceRepo ServiceRepository,
	branchRepo BranchRepository,
	customerRepo CustomerRepository,
	appointmentRepo AppointmentRepository,
	hours HoursResolver,
	guard CustomerGuard,
	availability AvailabilityChecker,
	assigner ConsultantAssigner,
	codes CodeGenerator,
	txManager TransactionManager,
	metrics MetricsRecorder,
	maxDaysAhead int,
	logger Logger,
) *UseCase {
	return &UseCase{
		serviceRepo:     serviceRepo,
		branchRepo:      branchRepo,
		customerRepo:    customerRepo,
		appointmentRepo: appointmentRepo,
		hours:           hours,
		guard:           guard,
		availability:    availability,
		assigner:        assigner,
		codes:           codes,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &schedule.RealTimeProvider{},
		maxDaysAhead:    maxDaysAhead,
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания записи.
// Проверки идут до транзакции. В транзакции берутся блокировки расписания филиала и клиента,
// проверки клиента и назначение консультанта повторяются под блокировкой, затем запись сохраняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: branch=%d, service=%d, date=%s, time=%s, email=%s",
		req.BranchID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.Customer.Email)

	details, err := uc.execute(ctx, req)
	if err != nil {
		uc.recordRejection(err)
		return nil, err
	}

	uc.metrics.AppointmentCreated(details.BranchID)
	uc.logger.Info("CreateAppointment: created appointment id=%d code=%s consultant=%d",
		details.ID, details.ConfirmationCode, details.Consultant.ID)

	return models.FromDomainDetails(details), nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.AppointmentDetails, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if err := validateDate(req.Date, now, uc.maxDaysAhead); err != nil {
		uc.logger.Warn("CreateAppointment: date %s rejected: %v", req.Date.Format(domain.DateFormat), err)
		return nil, err
	}

	// 2. Услуга и филиал
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	branch, err := uc.branchRepo.GetByID(ctx, req.BranchID)
	if err != nil {
		if errors.Is(err, branchRepo.ErrBranchNotFound) {
			uc.logger.Warn("CreateAppointment: branch id=%d not found", req.BranchID)
			return nil, ErrBranchNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get branch id=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: failed to get branch: %v", ErrInternal, err)
	}
	if !branch.IsActive {
		uc.logger.Warn("CreateAppointment: branch id=%d is inactive", req.BranchID)
		return nil, ErrBranchNotFound
	}

	// 3. Сетка 15 минут, затем часы работы
	if err := schedule.ValidateIncrement(req.StartTime); err != nil {
		uc.logger.Warn("CreateAppointment: start time %s is off the grid", req.StartTime)
		return nil, err
	}

	startTime := req.StartTime
	if !startTime.On(req.Date).After(now) {
		uc.logger.Warn("CreateAppointment: start %s %s has already passed", req.Date.Format(domain.DateFormat), startTime)
		return nil, fmt.Errorf("%w: start time %s has already passed", ErrInvalidDate, startTime)
	}

	endTime, err := startTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateAppointment: %s + %d minutes crosses midnight", startTime, service.DurationMinutes)
		return nil, fmt.Errorf("%w: appointment would end after midnight", domain.ErrOutsideOperatingHours)
	}

	hours, err := uc.hours.Resolve(ctx, branch.ID, req.Date)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to resolve hours of branch=%d: %v", branch.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if err := schedule.ValidateContainment(hours, startTime, endTime); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 4. Клиент не должен быть записан на пересекающееся время
	if err := uc.checkCustomer(ctx, req, startTime, endTime); err != nil {
		return nil, err
	}

	// 5. Предварительная проверка свободных мест
	available, err := uc.availability.IsSlotAvailable(ctx, branch.ID, req.Date, startTime, endTime)
	if err != nil {
		uc.logger.Error("CreateAppointment: availability check failed: %v", err)
		return nil, fmt.Errorf("%w: availability check: %v", ErrInternal, err)
	}
	if !available {
		uc.logger.Warn("CreateAppointment: slot %s-%s at branch=%d is fully booked", startTime, endTime, branch.ID)
		return nil, domain.ErrSlotUnavailable
	}

	// 6. Назначение консультанта
	consultant, err := uc.assign(ctx, branch.ID, req, startTime, endTime)
	if err != nil {
		return nil, err
	}

	var details *domain.AppointmentDetails

	// 7. Транзакция: блокировки, повторная проверка, клиент, код, вставка
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.appointmentRepo.LockSchedule(txCtx, scheduleLockKeys(branch.ID, req.Customer.Email, req.Date)...); err != nil {
			return uc.mapPersistError(branch.ID, "lock schedule", err)
		}

		// 7.1. Под блокировкой расписание могло измениться
		if err := uc.checkCustomer(txCtx, req, startTime, endTime); err != nil {
			return err
		}

		locked, err := uc.assign(txCtx, branch.ID, req, startTime, endTime)
		if err != nil {
			return err
		}
		if locked.ID != consultant.ID {
			uc.logger.Info("CreateAppointment: consultant %d was taken, reassigned to %d", consultant.ID, locked.ID)
		}

		// 7.2. Клиент
		customer, err := uc.customerRepo.FindOrCreate(txCtx, &domain.Customer{
			Email:     req.Customer.Email,
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
			Phone:     req.Customer.Phone,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to find or create customer: %v", err)
			return fmt.Errorf("%w: failed to find or create customer: %v", ErrInternal, err)
		}

		// 7.3. Код подтверждения
		code, err := uc.codes.Generate(txCtx, req.Date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to generate confirmation code: %v", err)
			if errors.Is(err, domain.ErrCodeGenerationExhausted) {
				return err
			}
			return fmt.Errorf("%w: failed to generate confirmation code: %v", ErrInternal, err)
		}

		// 7.4. Запись
		consultantID := locked.ID
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			ConfirmationCode: code,
			CustomerID:       customer.ID,
			BranchID:         branch.ID,
			ServiceID:        service.ID,
			ConsultantID:     &consultantID,
			AppointmentDate:  req.Date,
			StartTime:        startTime,
			EndTime:          endTime,
			Status:           domain.StatusConfirmed,
			Notes:            req.Notes,
		})
		if err != nil {
			return uc.mapPersistError(branch.ID, "create appointment", err)
		}

		details = &domain.AppointmentDetails{
			Appointment: *created,
			Branch:      branch,
			Service:     service,
			Customer:    customer,
			Consultant:  locked,
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrBeginTx) || errors.Is(err, txmanager.ErrCommitTx) {
			uc.logger.Error("CreateAppointment: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	return details, nil
}

// checkCustomer проверяет пересечения с записями клиента во всех филиалах
func (uc *UseCase) checkCustomer(ctx context.Context, req *Request, start, end types.TimeString) error {
	err := uc.guard.Check(ctx, req.Customer.Email, req.Date, start, end)
	if err == nil {
		return nil
	}

	var conflict *domain.CustomerConflictError
	if errors.As(err, &conflict) {
		uc.logger.Warn("CreateAppointment: customer %s already booked at %s", req.Customer.Email, conflict.BranchName)
		return err
	}

	uc.logger.Error("CreateAppointment: customer check failed: %v", err)
	return fmt.Errorf("%w: customer check: %v", ErrInternal, err)
}

// assign выбирает консультанта
func (uc *UseCase) assign(ctx context.Context, branchID int64, req *Request, start, end types.TimeString) (*domain.Consultant, error) {
	consultant, err := uc.assigner.Assign(ctx, branchID, req.Date, start, end)
	if err == nil {
		return consultant, nil
	}

	if errors.Is(err, domain.ErrNoConsultantAvailable) {
		uc.logger.Warn("CreateAppointment: no consultants free at branch=%d %s-%s", branchID, start, end)
		return nil, err
	}

	uc.logger.Error("CreateAppointment: assignment failed: %v", err)
	return nil, fmt.Errorf("%w: assignment: %v", ErrInternal, err)
}

// mapPersistError переводит ошибки хранилища внутри транзакции.
// Проигранная гонка за слот (уникальный индекс, конфликт сериализации) - domain.ErrSlotUnavailable.
func (uc *UseCase) mapPersistError(branchID int64, step string, err error) error {
	if errors.Is(err, appointmentRepo.ErrSlotTaken) {
		uc.logger.Warn("CreateAppointment: lost race for slot at branch=%d (%s): %v", branchID, step, err)
		uc.metrics.BookingConflict(branchID)
		return fmt.Errorf("%w: %v", domain.ErrSlotUnavailable, err)
	}

	uc.logger.Error("CreateAppointment: failed to %s: %v", step, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, step, err)
}

// recordRejection пишет причину отказа в метрики
func (uc *UseCase) recordRejection(err error) {
	reason := "internal"
	switch {
	case errors.Is(err, ErrInvalidInput):
		reason = "invalid_input"
	case errors.Is(err, ErrInvalidDate):
		reason = "invalid_date"
	case errors.Is(err, ErrDateTooFarInFuture):
		reason = "date_too_far"
	case errors.Is(err, domain.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, domain.ErrInvalidSlot):
		reason = "invalid_slot"
	case errors.Is(err, domain.ErrBranchClosed):
		reason = "branch_closed"
	case errors.Is(err, domain.ErrOutsideOperatingHours):
		reason = "outside_operating_hours"
	case errors.Is(err, domain.ErrCustomerDoubleBooked):
		reason = "customer_double_booked"
	case errors.Is(err, domain.ErrSlotUnavailable):
		reason = "slot_unavailable"
	case errors.Is(err, domain.ErrNoConsultantAvailable):
		reason = "no_consultant_available"
	case errors.Is(err, domain.ErrCodeGenerationExhausted):
		reason = "code_generation_exhausted"
	}
	uc.metrics.BookingRejected(reason)
}
