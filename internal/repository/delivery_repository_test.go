package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/testdata/mockclickhousebatch"
	"eduexpress-backend/internal/testdata/mockclickhouseconnection"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DeliveryRepositoryTestSuite struct {
	suite.Suite

	repository *deliveryRepository
	connMock   *mockclickhouseconnection.Connection
	batchMock  *mockclickhousebatch.Batch
}

func TestDeliveryRepository(t *testing.T) {
	suite.Run(t, new(DeliveryRepositoryTestSuite))
}

func (s *DeliveryRepositoryTestSuite) SetupTest() {
	s.connMock = &mockclickhouseconnection.Connection{}
	s.batchMock = &mockclickhousebatch.Batch{}
	s.repository = &deliveryRepository{conn: s.connMock}
}

func (s *DeliveryRepositoryTestSuite) TearDownTest() {
	s.connMock.AssertExpectations(s.T())
	s.batchMock.AssertExpectations(s.T())
}

func (s *DeliveryRepositoryTestSuite) record(id string) model.DeliveryRecord {
	return model.DeliveryRecord{
		EventID:    id,
		EventName:  "Lead",
		RecordType: model.CollectionLeads,
		RecordID:   id,
		Status:     string(model.DeliverySent),
		Attempts:   1,
		StatusCode: 200,
		Timestamp:  time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (s *DeliveryRepositoryTestSuite) TestCreateBatch_Success() {
	ctx := context.Background()
	records := []model.DeliveryRecord{s.record("a"), s.record("b")}

	s.connMock.On("PrepareBatch", mock.Anything, insertDeliveryQuery).Return(s.batchMock, nil).Once()
	for _, rec := range records {
		s.batchMock.On("Append",
			rec.EventID, rec.EventName, rec.RecordType, rec.RecordID, rec.Status,
			uint8(1), uint16(200), "", rec.Timestamp,
		).Return(nil).Once()
	}
	s.batchMock.On("Send").Return(nil).Once()

	s.NoError(s.repository.CreateBatch(ctx, records))
}

func (s *DeliveryRepositoryTestSuite) TestCreateBatch_Empty() {
	s.NoError(s.repository.CreateBatch(context.Background(), nil))
}

func (s *DeliveryRepositoryTestSuite) TestCreateBatch_PrepareError() {
	s.connMock.On("PrepareBatch", mock.Anything, insertDeliveryQuery).Return(nil, errors.New("connection refused")).Once()

	err := s.repository.CreateBatch(context.Background(), []model.DeliveryRecord{s.record("a")})
	s.ErrorContains(err, "prepare delivery batch")
}

func (s *DeliveryRepositoryTestSuite) TestCreateBatch_AppendErrorAborts() {
	s.connMock.On("PrepareBatch", mock.Anything, insertDeliveryQuery).Return(s.batchMock, nil).Once()
	s.batchMock.On("Append", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bad column")).Once()
	s.batchMock.On("Abort").Return(nil).Once()

	err := s.repository.CreateBatch(context.Background(), []model.DeliveryRecord{s.record("a")})
	s.ErrorContains(err, "append delivery record")
}

func (s *DeliveryRepositoryTestSuite) TestCreateBatch_SendError() {
	s.connMock.On("PrepareBatch", mock.Anything, insertDeliveryQuery).Return(s.batchMock, nil).Once()
	s.batchMock.On("Append", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.batchMock.On("Send").Return(errors.New("timeout")).Once()

	err := s.repository.CreateBatch(context.Background(), []model.DeliveryRecord{s.record("a")})
	s.ErrorContains(err, "send delivery batch")
}

func (s *DeliveryRepositoryTestSuite) TestFetchDeliveryStats() {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	window := model.Window{From: from, To: from.Add(24 * time.Hour)}
	rows := &mockclickhouseconnection.Rows{Data: [][]any{
		{"Lead", "sent", uint64(7)},
		{"Lead", "failed", uint64(2)},
	}}

	s.connMock.On("Query", mock.Anything, deliveryStatsQuery, []any{window.From, window.To}).Return(rows, nil).Once()

	stats, err := s.repository.FetchDeliveryStats(context.Background(), window)
	s.Require().NoError(err)
	s.Equal([]model.DeliveryStat{
		{EventName: "Lead", Status: "sent", Count: 7},
		{EventName: "Lead", Status: "failed", Count: 2},
	}, stats)
	s.True(rows.Closed)
}

func (s *DeliveryRepositoryTestSuite) TestFetchDeliveryStats_QueryError() {
	s.connMock.On("Query", mock.Anything, deliveryStatsQuery, mock.Anything).Return(nil, errors.New("down")).Once()

	_, err := s.repository.FetchDeliveryStats(context.Background(), model.Window{})
	s.ErrorContains(err, "query delivery stats")
}

func (s *DeliveryRepositoryTestSuite) TestFetchDeliveryStats_IterError() {
	rows := &mockclickhouseconnection.Rows{IterErr: errors.New("broken stream")}
	s.connMock.On("Query", mock.Anything, deliveryStatsQuery, mock.Anything).Return(rows, nil).Once()

	_, err := s.repository.FetchDeliveryStats(context.Background(), model.Window{})
	s.ErrorContains(err, "iterate delivery stats")
}
