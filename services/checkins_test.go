package services

import (
	"sync"
	"testing"
	"time"

	"checkin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartCheckIn(t *testing.T) {
	manager := setupTestDB(t)
	svc := NewCheckInService(manager)
	user := createTestUser(t, manager, "starter")

	checkIn, err := svc.Start(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, checkIn.UserID)
	assert.Nil(t, checkIn.EndTime)
	assert.Nil(t, checkIn.Duration)
	assert.False(t, checkIn.StartTime.IsZero())
}

func TestStartCheckInConflict(t *testing.T) {
	manager := setupTestDB(t)
	svc := NewCheckInService(manager)
	user := createTestUser(t, manager, "conflict")

	_, err := svc.Start(t.Context(), user.ID)
	require.NoError(t, err)

	_, err = svc.Start(t.Context(), user.ID)
	require.ErrorIs(t, err, ErrActiveCheckIn)

	// При последовательных операциях открытый чекин всегда один
	var openCount int64
	err = manager.Read(t.Context()).Model(&models.CheckIn{}).
		Where("user_id = ? AND end_time IS NULL", user.ID).
		Count(&openCount).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), openCount)
}

func TestStartCheckInConcurrentStarts(t *testing.T) {
	manager := setupTestDB(t)
	svc := NewCheckInService(manager)
	user := createTestUser(t, manager, "racer")

	// Проверка открытого чекина и вставка - два отдельных запроса, поэтому
	// под конкурентными стартами возможны дубли. Каждый вызов обязан
	// завершиться либо успехом, либо ErrActiveCheckIn, без паник.
	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Start(t.Context(), user.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrActiveCheckIn)
	}
	require.GreaterOrEqual(t, succeeded, 1)

	// Открытых интервалов ровно столько, сколько стартов прошло
	var openCount int64
	err := manager.Read(t.Context()).Model(&models.CheckIn{}).
		Where("user_id = ? AND end_time IS NULL", user.ID).
		Count(&openCount).Error
	require.NoError(t, err)
	assert.Equal(t, int64(succeeded), openCount)

	// Сервис остается работоспособным: CloseOpen закрывает по одному
	// интервалу за вызов, Current в итоге пустой и новый старт проходит
	for i := 0; i < succeeded; i++ {
		require.NoError(t, svc.CloseOpen(t.Context(), user.ID))
	}
	current, err := svc.Current(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, current)

	_, err = svc.Start(t.Context(), user.ID)
	require.NoError(t, err)
}

func TestCheckoutDuration(t *testing.T) {
	manager := setupTestDB(t)
	svc := NewCheckInService(manager)
	user := createTestUser(t, manager, "timer")

	checkIn := models.CheckIn{
		UserID:    user.ID,
		StartTime: time.Now().Add(-125 * time.Second),
	}
	require.NoError(t, manager.Write(t.Context()).Create(&checkIn).Error)

	closed, err := svc.Checkout(t.Context(), checkIn.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.EndTime)
	require.NotNil(t, closed.Duration)
	assert.Equal(t, int64(125), *closed.Duration)
}

func TestCheckoutTwice(t *testing.T) {
	manager := setupTestDB(t)
	svc := NewCheckInService(manager)
	user := createTestUser(t, manager, "double")

	checkIn, err := svc.Start(t.Context(), user.ID)
	require.NoError(t, err)

	_, err = svc.Checkout(t.Context(), checkIn.ID, user.ID)
	require.NoError(t, err)

	_, err = svc.Checkout(t.Context(), checkIn.ID, user.ID)
	require.ErrorIs(t, err, ErrCheckInClosed)
}

func TestCheckoutForeignCheckIn(t *testing.T) {
	manager := setupTestDB(t)
	svc := NewCheckInService(manager)
	owner := createTestUser(t, manager, "owner")
	other := createTestUser(t, manager, "other")

	checkIn, err := svc.Start(t.Context(), owner.ID)
	require.NoError(t, err)

	// Чужой чекин неотличим от несуществующего
	_, err = svc.Checkout(t.Context(), checkIn.ID, other.ID)
	require.ErrorIs(t, err, ErrCheckInNotFound)
}

func TestCheckoutMissing(t *testing.T) {
	manager := setupTestDB(t)
	svc := NewCheckInService(manager)
	user := createTestUser(t, manager, "missing")

	_, err := svc.Checkout(t.Context(), 12345, user.ID)
	require.ErrorIs(t, err, ErrCheckInNotFound)
}

func TestCurrent(t *testing.T) {
	manager := setupTestDB(t)
	svc := NewCheckInService(manager)
	user := createTestUser(t, manager, "current")

	checkIn, err := svc.Current(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, checkIn)

	started, err := svc.Start(t.Context(), user.ID)
	require.NoError(t, err)

	checkIn, err = svc.Current(t.Context(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, checkIn)
	assert.Equal(t, started.ID, checkIn.ID)
}

func TestCloseOpen(t *testing.T) {
	manager := setupTestDB(t)
	svc := NewCheckInService(manager)
	user := createTestUser(t, manager, "closer")

	// Без открытого чекина закрытие - no-op
	require.NoError(t, svc.CloseOpen(t.Context(), user.ID))

	started, err := svc.Start(t.Context(), user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.CloseOpen(t.Context(), user.ID))

	var closed models.CheckIn
	require.NoError(t, manager.Read(t.Context()).First(&closed, started.ID).Error)
	assert.NotNil(t, closed.EndTime)
	assert.NotNil(t, closed.Duration)

	checkIn, err := svc.Current(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, checkIn)
}

func TestStats(t *testing.T) {
	manager := setupTestDB(t)
	svc := NewCheckInService(manager)
	user := createTestUser(t, manager, "stats")
	now := time.Now()

	seconds := func(v int64) *int64 { return &v }
	closedAt := func(start time.Time, dur int64) models.CheckIn {
		end := start.Add(time.Duration(dur) * time.Second)
		return models.CheckIn{UserID: user.ID, StartTime: start, EndTime: &end, Duration: seconds(dur)}
	}

	// Сегодняшние чекины отсчитываются от полуночи, а не от now, чтобы
	// тест не зависел от времени запуска
	today := startOfDay(now)
	rows := []models.CheckIn{
		closedAt(today.Add(time.Minute), 100),
		closedAt(today.Add(2*time.Minute), 150),
		{UserID: user.ID, StartTime: today.Add(3 * time.Minute)}, // открытый
		closedAt(now.AddDate(0, 0, -3), 200),
		closedAt(now.AddDate(0, 0, -3).Add(time.Hour), 250),
		closedAt(now.AddDate(0, 0, -10), 300),
	}
	for i := range rows {
		require.NoError(t, manager.Write(t.Context()).Create(&rows[i]).Error)
	}

	stats, err := svc.Stats(t.Context(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.DailyCount)
	assert.Equal(t, int64(5), stats.WeeklyCount)
	assert.InDelta(t, 200.0, stats.AverageDuration, 0.001) // (100+150+200+250+300)/5
	require.Len(t, stats.RecentCheckIns, 5)
	assert.Equal(t, rows[2].ID, stats.RecentCheckIns[0].ID) // самый свежий первым
}

func TestStatsWithoutCheckIns(t *testing.T) {
	manager := setupTestDB(t)
	svc := NewCheckInService(manager)
	user := createTestUser(t, manager, "fresh")

	stats, err := svc.Stats(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.DailyCount)
	assert.Zero(t, stats.WeeklyCount)
	assert.Zero(t, stats.AverageDuration)
	// Пустой список сериализуется как [], а не null
	require.NotNil(t, stats.RecentCheckIns)
	assert.Empty(t, stats.RecentCheckIns)
}

func TestStatsAverageSingleCheckIn(t *testing.T) {
	manager := setupTestDB(t)
	svc := NewCheckInService(manager)
	user := createTestUser(t, manager, "single")

	checkIn := models.CheckIn{
		UserID:    user.ID,
		StartTime: time.Now().Add(-125 * time.Second),
	}
	require.NoError(t, manager.Write(t.Context()).Create(&checkIn).Error)

	_, err := svc.Checkout(t.Context(), checkIn.ID, user.ID)
	require.NoError(t, err)

	stats, err := svc.Stats(t.Context(), user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 125.0, stats.AverageDuration, 0.001)
}
