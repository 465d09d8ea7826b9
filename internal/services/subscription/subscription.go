// Package services содержит бизнес-логику жизненного цикла подписки:
// регистрацию пользователей, активацию пробного и платного периодов,
// сопоставление платежа с тарифом и выборки для админ-панели.
package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/darinsight/tarobot/internal/config"
	"github.com/darinsight/tarobot/internal/lib/sl"
	"github.com/darinsight/tarobot/internal/models"
)

// Ошибки бизнес-логики, различаемые обработчиками.
var (
	// ErrUnknownAmount сумма платежа не совпала ни с одним тарифом.
	ErrUnknownAmount = errors.New("unknown payment amount")
	// ErrTrialUsed пробный период уже использован.
	ErrTrialUsed = errors.New("trial already used")
	// ErrDuplicatePayment платёж с этим номером уже обработан.
	ErrDuplicatePayment = errors.New("payment already processed")
)

// UserRepository определяет методы хранилища учётных записей.
type UserRepository interface {
	// Register создаёт запись пользователя, если её нет.
	Register(userID int64, username string) error
	// Activate включает подписку на days дней от текущего момента.
	Activate(userID int64, days int, subType string) error
	// IsActive сообщает, действует ли подписка (с ленивой проверкой срока).
	IsActive(userID int64) (bool, error)
	// Expiry возвращает дату окончания активной подписки.
	Expiry(userID int64) (time.Time, bool)
	// SubscriptionStart возвращает дату начала активной подписки.
	SubscriptionStart(userID int64) (time.Time, bool)
	// CanUseTrial сообщает о доступности пробного периода.
	CanUseTrial(userID int64) (bool, error)
	// TouchLastActive обновляет отметку последней активности.
	TouchLastActive(userID int64) error
	// ListAll возвращает всех пользователей в порядке регистрации.
	ListAll() []models.UserAccount
}

// PaymentJournal определяет журнал обработанных платежей.
type PaymentJournal interface {
	// Processed сообщает, обрабатывался ли платёж с этим номером.
	Processed(regPayNum string) bool
	// MarkProcessed фиксирует номер обработанного платежа.
	MarkProcessed(regPayNum string) error
}

// SubscriptionService реализует бизнес-логику подписок.
type SubscriptionService struct {
	repo      UserRepository
	payments  PaymentJournal
	plans     []config.Plan
	trialDays int
	log       *slog.Logger
}

// New создает новый экземпляр SubscriptionService.
func New(repo UserRepository, payments PaymentJournal, plans []config.Plan, trialDays int, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		payments:  payments,
		plans:     plans,
		trialDays: trialDays,
		log:       log,
	}
}

// EnsureUser регистрирует пользователя при первом контакте и обновляет
// отметку активности.
func (s *SubscriptionService) EnsureUser(userID int64, username string) error {
	if err := s.repo.Register(userID, username); err != nil {
		return err
	}
	return s.repo.TouchLastActive(userID)
}

// IsActive сообщает, действует ли подписка пользователя.
func (s *SubscriptionService) IsActive(userID int64) (bool, error) {
	return s.repo.IsActive(userID)
}

// CanUseTrial сообщает, доступен ли пользователю пробный период.
func (s *SubscriptionService) CanUseTrial(userID int64) (bool, error) {
	return s.repo.CanUseTrial(userID)
}

// Expiry возвращает дату окончания активной подписки.
func (s *SubscriptionService) Expiry(userID int64) (time.Time, bool) {
	return s.repo.Expiry(userID)
}

// TrialDays возвращает длительность пробного периода в днях.
func (s *SubscriptionService) TrialDays() int {
	return s.trialDays
}

// Plans возвращает каталог тарифов.
func (s *SubscriptionService) Plans() []config.Plan {
	return s.plans
}

// PlanByID ищет тариф по идентификатору.
func (s *SubscriptionService) PlanByID(id string) (config.Plan, bool) {
	for _, p := range s.plans {
		if p.ID == id {
			return p, true
		}
	}
	return config.Plan{}, false
}

// ActivateTrial включает пробный период, если он ещё не использован.
func (s *SubscriptionService) ActivateTrial(userID int64) error {
	const op = "services.ActivateTrial"

	can, err := s.repo.CanUseTrial(userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !can {
		return ErrTrialUsed
	}
	if err := s.repo.Activate(userID, s.trialDays, models.SubscriptionTrial); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("trial activated", sl.UserID(userID), slog.Int("days", s.trialDays))
	return nil
}

// ActivatePaid сопоставляет сумму платежа (в копейках) с тарифом и включает
// платную подписку. Сумма сравнивается строго: незнакомая сумма — ошибка,
// а не ближайший тариф. Повторное уведомление с тем же номером платежа
// не продлевает подписку ещё раз.
func (s *SubscriptionService) ActivatePaid(userID int64, amountKopecks int64, regPayNum string) (config.Plan, error) {
	const op = "services.ActivatePaid"

	if s.payments.Processed(regPayNum) {
		return config.Plan{}, ErrDuplicatePayment
	}

	var plan config.Plan
	found := false
	for _, p := range s.plans {
		if int64(p.Price)*100 == amountKopecks {
			plan = p
			found = true
			break
		}
	}
	if !found {
		return config.Plan{}, fmt.Errorf("%w: %d", ErrUnknownAmount, amountKopecks)
	}

	if err := s.repo.Activate(userID, plan.Days, models.SubscriptionPaid); err != nil {
		return config.Plan{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.payments.MarkProcessed(regPayNum); err != nil {
		// подписка уже включена, теряем только защиту от повтора
		s.log.Error("failed to journal payment", sl.Err(err), slog.String("reg_pay_num", regPayNum))
	}

	s.log.Info("paid subscription activated",
		sl.UserID(userID),
		slog.String("plan", plan.ID),
		slog.Int("days", plan.Days),
		slog.String("reg_pay_num", regPayNum))
	return plan, nil
}

// Users возвращает всех зарегистрированных пользователей в порядке
// регистрации. Используется рассылкой и админ-панелью.
func (s *SubscriptionService) Users() []models.UserAccount {
	return s.repo.ListAll()
}

// Stats агрегированная статистика для админ-панели.
type Stats struct {
	TotalUsers  int
	ActiveToday int
}

// Stats возвращает количество пользователей и активных за сегодня.
func (s *SubscriptionService) Stats() Stats {
	users := s.repo.ListAll()
	today := time.Now()

	st := Stats{TotalUsers: len(users)}
	for _, u := range users {
		y1, m1, d1 := u.LastActive.Date()
		y2, m2, d2 := today.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			st.ActiveToday++
		}
	}
	return st
}

// PayingUser строка списка платных подписчиков.
type PayingUser struct {
	Account models.UserAccount
	Start   time.Time
	Expires time.Time
}

// PayingUsers возвращает пользователей с действующей платной подпиской
// в порядке регистрации.
func (s *SubscriptionService) PayingUsers() []PayingUser {
	var out []PayingUser
	for _, u := range s.repo.ListAll() {
		active, err := s.repo.IsActive(u.UserID)
		if err != nil || !active {
			continue
		}
		if u.Subscription.Type != models.SubscriptionPaid {
			continue
		}
		start, ok := s.repo.SubscriptionStart(u.UserID)
		if !ok {
			continue
		}
		expires, _ := s.repo.Expiry(u.UserID)
		out = append(out, PayingUser{Account: u, Start: start, Expires: expires})
	}
	return out
}

// FormatRemaining форматирует остаток срока подписки для меню:
// "2д 5ч", "5ч 12м" либо "истекла".
func FormatRemaining(expires time.Time) string {
	diff := time.Until(expires)
	if diff <= 0 {
		return "истекла"
	}
	days := int(diff.Hours()) / 24
	hours := int(diff.Hours()) % 24
	if days > 0 {
		return fmt.Sprintf("%dд %dч", days, hours)
	}
	minutes := int(diff.Minutes()) % 60
	return fmt.Sprintf("%dч %dм", hours, minutes)
}
