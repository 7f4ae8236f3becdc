package mockclickhousebatch

import (
	"eduexpress-backend/internal/db"

	"github.com/stretchr/testify/mock"
)

type Batch struct {
	mock.Mock
}

var _ db.Batch = &Batch{}

func (m *Batch) Append(args ...any) error {
	callArgs := []any{}
	callArgs = append(callArgs, args...)
	return m.Called(callArgs...).Error(0)
}

func (m *Batch) Send() error {
	mockArgs := m.Called()
	return mockArgs.Error(0)
}

func (m *Batch) Abort() error {
	mockArgs := m.Called()
	return mockArgs.Error(0)
}
