package lifecycle

import (
	"context"
	"sync"

	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

var _ itemRepo = &itemRepoMock{}

type itemRepoMock struct {
	CreateFunc            func(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetByIDFunc           func(ctx context.Context, id int64) (*domain.Item, error)
	GetByTitleFunc        func(ctx context.Context, title string) (*domain.Item, error)
	ExistsTitleFunc       func(ctx context.Context, title string) (bool, error)
	ExistsFingerprintFunc func(ctx context.Context, fingerprint string) (bool, error)
	DeleteFunc            func(ctx context.Context, id int64) error
	ListFunc              func(ctx context.Context, limit int, offset int) ([]domain.Item, error)

	calls struct {
		Create []struct {
			Ctx  context.Context
			Item *domain.Item
		}
		GetByID []struct {
			Ctx context.Context
			ID  int64
		}
		GetByTitle []struct {
			Ctx   context.Context
			Title string
		}
		ExistsTitle []struct {
			Ctx   context.Context
			Title string
		}
		ExistsFingerprint []struct {
			Ctx         context.Context
			Fingerprint string
		}
		Delete []struct {
			Ctx context.Context
			ID  int64
		}
		List []struct {
			Ctx    context.Context
			Limit  int
			Offset int
		}
	}
	lockCreate            sync.RWMutex
	lockGetByID           sync.RWMutex
	lockGetByTitle        sync.RWMutex
	lockExistsTitle       sync.RWMutex
	lockExistsFingerprint sync.RWMutex
	lockDelete            sync.RWMutex
	lockList              sync.RWMutex
}

func (mock *itemRepoMock) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if mock.CreateFunc == nil {
		panic("itemRepoMock.CreateFunc: method is nil but itemRepo.Create was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Item *domain.Item
	}{Ctx: ctx, Item: item}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, item)
}

func (mock *itemRepoMock) CreateCalls() []struct {
	Ctx  context.Context
	Item *domain.Item
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *itemRepoMock) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	if mock.GetByIDFunc == nil {
		panic("itemRepoMock.GetByIDFunc: method is nil but itemRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  int64
	}{Ctx: ctx, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *itemRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  int64
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *itemRepoMock) GetByTitle(ctx context.Context, title string) (*domain.Item, error) {
	if mock.GetByTitleFunc == nil {
		panic("itemRepoMock.GetByTitleFunc: method is nil but itemRepo.GetByTitle was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Title string
	}{Ctx: ctx, Title: title}
	mock.lockGetByTitle.Lock()
	mock.calls.GetByTitle = append(mock.calls.GetByTitle, callInfo)
	mock.lockGetByTitle.Unlock()
	return mock.GetByTitleFunc(ctx, title)
}

func (mock *itemRepoMock) GetByTitleCalls() []struct {
	Ctx   context.Context
	Title string
} {
	mock.lockGetByTitle.RLock()
	calls := mock.calls.GetByTitle
	mock.lockGetByTitle.RUnlock()
	return calls
}

func (mock *itemRepoMock) ExistsTitle(ctx context.Context, title string) (bool, error) {
	if mock.ExistsTitleFunc == nil {
		panic("itemRepoMock.ExistsTitleFunc: method is nil but itemRepo.ExistsTitle was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Title string
	}{Ctx: ctx, Title: title}
	mock.lockExistsTitle.Lock()
	mock.calls.ExistsTitle = append(mock.calls.ExistsTitle, callInfo)
	mock.lockExistsTitle.Unlock()
	return mock.ExistsTitleFunc(ctx, title)
}

func (mock *itemRepoMock) ExistsTitleCalls() []struct {
	Ctx   context.Context
	Title string
} {
	mock.lockExistsTitle.RLock()
	calls := mock.calls.ExistsTitle
	mock.lockExistsTitle.RUnlock()
	return calls
}

func (mock *itemRepoMock) ExistsFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	if mock.ExistsFingerprintFunc == nil {
		panic("itemRepoMock.ExistsFingerprintFunc: method is nil but itemRepo.ExistsFingerprint was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		Fingerprint string
	}{Ctx: ctx, Fingerprint: fingerprint}
	mock.lockExistsFingerprint.Lock()
	mock.calls.ExistsFingerprint = append(mock.calls.ExistsFingerprint, callInfo)
	mock.lockExistsFingerprint.Unlock()
	return mock.ExistsFingerprintFunc(ctx, fingerprint)
}

func (mock *itemRepoMock) ExistsFingerprintCalls() []struct {
	Ctx         context.Context
	Fingerprint string
} {
	mock.lockExistsFingerprint.RLock()
	calls := mock.calls.ExistsFingerprint
	mock.lockExistsFingerprint.RUnlock()
	return calls
}

func (mock *itemRepoMock) Delete(ctx context.Context, id int64) error {
	if mock.DeleteFunc == nil {
		panic("itemRepoMock.DeleteFunc: method is nil but itemRepo.Delete was just called")
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

func (mock *itemRepoMock) DeleteCalls() []struct {
	Ctx context.Context
	ID  int64
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *itemRepoMock) List(ctx context.Context, limit int, offset int) ([]domain.Item, error) {
	if mock.ListFunc == nil {
		panic("itemRepoMock.ListFunc: method is nil but itemRepo.List was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Limit  int
		Offset int
	}{Ctx: ctx, Limit: limit, Offset: offset}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, limit, offset)
}

func (mock *itemRepoMock) ListCalls() []struct {
	Ctx    context.Context
	Limit  int
	Offset int
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}
