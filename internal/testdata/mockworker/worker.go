package mockworker

import (
	"eduexpress-backend/internal/model"

	"github.com/stretchr/testify/mock"
)

type Worker struct {
	mock.Mock
}

func (m *Worker) Record(rec model.DeliveryRecord) {
	m.Called(rec)
}

func (m *Worker) Shutdown() {
	m.Called()
}
