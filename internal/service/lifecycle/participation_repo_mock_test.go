package lifecycle

import (
	"context"
	"sync"

	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

var _ participationRepo = &participationRepoMock{}

type participationRepoMock struct {
	CreateFunc       func(ctx context.Context, key domain.ParticipationKey, state domain.ParticipationState) (*domain.Participation, error)
	GetFunc          func(ctx context.Context, key domain.ParticipationKey) (*domain.Participation, error)
	GetForUpdateFunc func(ctx context.Context, key domain.ParticipationKey) (*domain.Participation, error)
	UpdateStateFunc  func(ctx context.Context, id int64, state domain.ParticipationState) (*domain.Participation, error)
	DeleteFunc       func(ctx context.Context, id int64) error
	ListByItemFunc   func(ctx context.Context, itemID int64) ([]domain.Participation, error)
	ListByUserFunc   func(ctx context.Context, userID int64) ([]domain.Participation, error)
	CountByItemFunc  func(ctx context.Context, itemID int64) (int, error)
	CountByUserFunc  func(ctx context.Context, userID int64) (int, error)

	calls struct {
		Create []struct {
			Ctx   context.Context
			Key   domain.ParticipationKey
			State domain.ParticipationState
		}
		Get []struct {
			Ctx context.Context
			Key domain.ParticipationKey
		}
		GetForUpdate []struct {
			Ctx context.Context
			Key domain.ParticipationKey
		}
		UpdateState []struct {
			Ctx   context.Context
			ID    int64
			State domain.ParticipationState
		}
		Delete []struct {
			Ctx context.Context
			ID  int64
		}
		ListByItem []struct {
			Ctx    context.Context
			ItemID int64
		}
		ListByUser []struct {
			Ctx    context.Context
			UserID int64
		}
		CountByItem []struct {
			Ctx    context.Context
			ItemID int64
		}
		CountByUser []struct {
			Ctx    context.Context
			UserID int64
		}
	}
	lockCreate       sync.RWMutex
	lockGet          sync.RWMutex
	lockGetForUpdate sync.RWMutex
	lockUpdateState  sync.RWMutex
	lockDelete       sync.RWMutex
	lockListByItem   sync.RWMutex
	lockListByUser   sync.RWMutex
	lockCountByItem  sync.RWMutex
	lockCountByUser  sync.RWMutex
}

func (mock *participationRepoMock) Create(ctx context.Context, key domain.ParticipationKey, state domain.ParticipationState) (*domain.Participation, error) {
	if mock.CreateFunc == nil {
		panic("participationRepoMock.CreateFunc: method is nil but participationRepo.Create was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Key   domain.ParticipationKey
		State domain.ParticipationState
	}{Ctx: ctx, Key: key, State: state}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, key, state)
}

func (mock *participationRepoMock) CreateCalls() []struct {
	Ctx   context.Context
	Key   domain.ParticipationKey
	State domain.ParticipationState
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *participationRepoMock) Get(ctx context.Context, key domain.ParticipationKey) (*domain.Participation, error) {
	if mock.GetFunc == nil {
		panic("participationRepoMock.GetFunc: method is nil but participationRepo.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Key domain.ParticipationKey
	}{Ctx: ctx, Key: key}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, key)
}

func (mock *participationRepoMock) GetCalls() []struct {
	Ctx context.Context
	Key domain.ParticipationKey
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *participationRepoMock) GetForUpdate(ctx context.Context, key domain.ParticipationKey) (*domain.Participation, error) {
	if mock.GetForUpdateFunc == nil {
		panic("participationRepoMock.GetForUpdateFunc: method is nil but participationRepo.GetForUpdate was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Key domain.ParticipationKey
	}{Ctx: ctx, Key: key}
	mock.lockGetForUpdate.Lock()
	mock.calls.GetForUpdate = append(mock.calls.GetForUpdate, callInfo)
	mock.lockGetForUpdate.Unlock()
	return mock.GetForUpdateFunc(ctx, key)
}

func (mock *participationRepoMock) GetForUpdateCalls() []struct {
	Ctx context.Context
	Key domain.ParticipationKey
} {
	mock.lockGetForUpdate.RLock()
	calls := mock.calls.GetForUpdate
	mock.lockGetForUpdate.RUnlock()
	return calls
}

func (mock *participationRepoMock) UpdateState(ctx context.Context, id int64, state domain.ParticipationState) (*domain.Participation, error) {
	if mock.UpdateStateFunc == nil {
		panic("participationRepoMock.UpdateStateFunc: method is nil but participationRepo.UpdateState was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		ID    int64
		State domain.ParticipationState
	}{Ctx: ctx, ID: id, State: state}
	mock.lockUpdateState.Lock()
	mock.calls.UpdateState = append(mock.calls.UpdateState, callInfo)
	mock.lockUpdateState.Unlock()
	return mock.UpdateStateFunc(ctx, id, state)
}

func (mock *participationRepoMock) UpdateStateCalls() []struct {
	Ctx   context.Context
	ID    int64
	State domain.ParticipationState
} {
	mock.lockUpdateState.RLock()
	calls := mock.calls.UpdateState
	mock.lockUpdateState.RUnlock()
	return calls
}

func (mock *participationRepoMock) Delete(ctx context.Context, id int64) error {
	if mock.DeleteFunc == nil {
		panic("participationRepoMock.DeleteFunc: method is nil but participationRepo.Delete was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  int64
	}{Ctx: ctx, ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *participationRepoMock) DeleteCalls() []struct {
	Ctx context.Context
	ID  int64
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *participationRepoMock) ListByItem(ctx context.Context, itemID int64) ([]domain.Participation, error) {
	if mock.ListByItemFunc == nil {
		panic("participationRepoMock.ListByItemFunc: method is nil but participationRepo.ListByItem was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ItemID int64
	}{Ctx: ctx, ItemID: itemID}
	mock.lockListByItem.Lock()
	mock.calls.ListByItem = append(mock.calls.ListByItem, callInfo)
	mock.lockListByItem.Unlock()
	return mock.ListByItemFunc(ctx, itemID)
}

func (mock *participationRepoMock) ListByItemCalls() []struct {
	Ctx    context.Context
	ItemID int64
} {
	mock.lockListByItem.RLock()
	calls := mock.calls.ListByItem
	mock.lockListByItem.RUnlock()
	return calls
}

func (mock *participationRepoMock) ListByUser(ctx context.Context, userID int64) ([]domain.Participation, error) {
	if mock.ListByUserFunc == nil {
		panic("participationRepoMock.ListByUserFunc: method is nil but participationRepo.ListByUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID int64
	}{Ctx: ctx, UserID: userID}
	mock.lockListByUser.Lock()
	mock.calls.ListByUser = append(mock.calls.ListByUser, callInfo)
	mock.lockListByUser.Unlock()
	return mock.ListByUserFunc(ctx, userID)
}

func (mock *participationRepoMock) ListByUserCalls() []struct {
	Ctx    context.Context
	UserID int64
} {
	mock.lockListByUser.RLock()
	calls := mock.calls.ListByUser
	mock.lockListByUser.RUnlock()
	return calls
}

func (mock *participationRepoMock) CountByItem(ctx context.Context, itemID int64) (int, error) {
	if mock.CountByItemFunc == nil {
		panic("participationRepoMock.CountByItemFunc: method is nil but participationRepo.CountByItem was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ItemID int64
	}{Ctx: ctx, ItemID: itemID}
	mock.lockCountByItem.Lock()
	mock.calls.CountByItem = append(mock.calls.CountByItem, callInfo)
	mock.lockCountByItem.Unlock()
	return mock.CountByItemFunc(ctx, itemID)
}

func (mock *participationRepoMock) CountByItemCalls() []struct {
	Ctx    context.Context
	ItemID int64
} {
	mock.lockCountByItem.RLock()
	calls := mock.calls.CountByItem
	mock.lockCountByItem.RUnlock()
	return calls
}

func (mock *participationRepoMock) CountByUser(ctx context.Context, userID int64) (int, error) {
	if mock.CountByUserFunc == nil {
		panic("participationRepoMock.CountByUserFunc: method is nil but participationRepo.CountByUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID int64
	}{Ctx: ctx, UserID: userID}
	mock.lockCountByUser.Lock()
	mock.calls.CountByUser = append(mock.calls.CountByUser, callInfo)
	mock.lockCountByUser.Unlock()
	return mock.CountByUserFunc(ctx, userID)
}

func (mock *participationRepoMock) CountByUserCalls() []struct {
	Ctx    context.Context
	UserID int64
} {
	mock.lockCountByUser.RLock()
	calls := mock.calls.CountByUser
	mock.lockCountByUser.RUnlock()
	return calls
}
