package bot

import "sync"

// chatState режим диалога с администратором: в обычном режиме текст
// трактуется как команда меню, в модальных — как ввод для рассылки
// или нового текста шаблона.
type chatState int

const (
	stateIdle chatState = iota
	stateAwaitingBroadcast
	stateAwaitingEditValue
)

type chatSession struct {
	state   chatState
	editKey string
}

// stateStore потокобезопасное хранилище модальных состояний чатов.
// Состояния живут только в памяти: после рестарта все диалоги
// возвращаются в обычный режим.
type stateStore struct {
	mu       sync.Mutex
	sessions map[int64]chatSession
}

func newStateStore() *stateStore {
	return &stateStore{sessions: make(map[int64]chatSession)}
}

func (s *stateStore) get(chatID int64) chatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions[chatID]
}

func (s *stateStore) set(chatID int64, session chatSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[chatID] = session
}

func (s *stateStore) reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
}
