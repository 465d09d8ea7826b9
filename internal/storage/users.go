// Package storage реализует хранилища бота поверх JSON-снапшотов:
// учётные записи пользователей с подписками, редактируемые шаблоны
// сообщений и журнал обработанных платежей.
package storage

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/darinsight/tarobot/internal/models"
	"github.com/darinsight/tarobot/internal/storage/snapshot"
)

// UserStore хранилище учётных записей пользователей.
// Все мутации сериализуются таблицей снапшота, срок подписки
// проверяется лениво при чтении — фонового обхода нет.
type UserStore struct {
	tbl *snapshot.Table[models.UserAccount]
	now func() time.Time
}

// NewUserStore открывает хранилище пользователей по пути к файлу-снапшоту.
func NewUserStore(path string) (*UserStore, error) {
	const op = "storage.NewUserStore"

	tbl, err := snapshot.Open[models.UserAccount](path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &UserStore{tbl: tbl, now: time.Now}, nil
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func nextSeq(data map[string]models.UserAccount) int64 {
	var max int64
	for _, acc := range data {
		if acc.Seq > max {
			max = acc.Seq
		}
	}
	return max + 1
}

// Register создаёт пустую запись пользователя, если её ещё нет.
// Повторный вызов ничего не меняет: поля существующей подписки
// никогда не перезаписываются.
func (s *UserStore) Register(userID int64, username string) error {
	const op = "storage.Register"

	err := s.tbl.Update(func(data map[string]models.UserAccount) error {
		if _, ok := data[key(userID)]; ok {
			return nil
		}
		data[key(userID)] = models.UserAccount{
			UserID:     userID,
			Username:   username,
			LastActive: s.now(),
			Seq:        nextSeq(data),
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Activate включает подписку пользователя на days дней с текущего момента.
// Незнакомый пользователь сначала регистрируется. Повторная активация не
// суммирует сроки: expires всегда считается от "сейчас". Пробная подписка
// необратимо помечает trial_used.
func (s *UserStore) Activate(userID int64, days int, subType string) error {
	const op = "storage.Activate"

	err := s.tbl.Update(func(data map[string]models.UserAccount) error {
		acc, ok := data[key(userID)]
		if !ok {
			acc = models.UserAccount{
				UserID:     userID,
				LastActive: s.now(),
				Seq:        nextSeq(data),
			}
		}
		start := s.now()
		expires := start.AddDate(0, 0, days)
		acc.Subscription.Active = true
		acc.Subscription.Type = subType
		acc.Subscription.StartDate = &start
		acc.Subscription.Expires = &expires
		if subType == models.SubscriptionTrial {
			acc.Subscription.TrialUsed = true
		}
		data[key(userID)] = acc
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsActive сообщает, действует ли подписка пользователя. Если срок вышел,
// запись переводится в неактивное состояние и изменение сохраняется —
// это единственная точка проверки срока во всей системе.
func (s *UserStore) IsActive(userID int64) (bool, error) {
	const op = "storage.IsActive"

	acc, ok := s.tbl.Get(key(userID))
	if !ok || !acc.Subscription.Active {
		return false, nil
	}
	if acc.Subscription.Expires != nil && !s.now().Before(*acc.Subscription.Expires) {
		err := s.tbl.Update(func(data map[string]models.UserAccount) error {
			acc, ok := data[key(userID)]
			if !ok {
				return nil
			}
			acc.Subscription.Active = false
			data[key(userID)] = acc
			return nil
		})
		if err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		return false, nil
	}
	return true, nil
}

// Expiry возвращает дату окончания подписки, только пока подписка активна.
// Истёкшая запись, ещё не переведённая IsActive в неактивное состояние,
// тоже считается погасшей.
func (s *UserStore) Expiry(userID int64) (time.Time, bool) {
	acc, ok := s.tbl.Get(key(userID))
	if !ok || !acc.Subscription.Active || acc.Subscription.Expires == nil {
		return time.Time{}, false
	}
	if !s.now().Before(*acc.Subscription.Expires) {
		return time.Time{}, false
	}
	return *acc.Subscription.Expires, true
}

// SubscriptionStart возвращает дату начала подписки, только пока она активна.
func (s *UserStore) SubscriptionStart(userID int64) (time.Time, bool) {
	acc, ok := s.tbl.Get(key(userID))
	if !ok || !acc.Subscription.Active || acc.Subscription.StartDate == nil {
		return time.Time{}, false
	}
	if acc.Subscription.Expires != nil && !s.now().Before(*acc.Subscription.Expires) {
		return time.Time{}, false
	}
	return *acc.Subscription.StartDate, true
}

// CanUseTrial сообщает, доступен ли пользователю пробный период.
// Незнакомый пользователь попутно регистрируется.
func (s *UserStore) CanUseTrial(userID int64) (bool, error) {
	const op = "storage.CanUseTrial"

	if err := s.Register(userID, ""); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	acc, _ := s.tbl.Get(key(userID))
	return !acc.Subscription.TrialUsed, nil
}

// TouchLastActive обновляет отметку последней активности пользователя.
func (s *UserStore) TouchLastActive(userID int64) error {
	const op = "storage.TouchLastActive"

	err := s.tbl.Update(func(data map[string]models.UserAccount) error {
		acc, ok := data[key(userID)]
		if !ok {
			return nil
		}
		acc.LastActive = s.now()
		data[key(userID)] = acc
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListAll возвращает всех пользователей в порядке первой регистрации.
func (s *UserStore) ListAll() []models.UserAccount {
	snap := s.tbl.Snapshot()

	out := make([]models.UserAccount, 0, len(snap))
	for _, acc := range snap {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}
