package repositories

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/api-backend/internal/crypto"
	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/testutil"
)

const testMobile = "9999999999"

func issue(t *testing.T, repo *OTPRepository, code string, ttl time.Duration) *models.OTPChallenge {
	t.Helper()
	challenge := &models.OTPChallenge{
		Mobile:    testMobile,
		CodeHash:  crypto.HashOTP(testMobile, code),
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	require.NoError(t, repo.Issue(context.Background(), challenge))
	return challenge
}

func TestOTPRepository_IssueInvalidatesPrevious(t *testing.T) {
	repo := NewOTPRepository(testutil.NewDB(t))
	ctx := context.Background()

	first := issue(t, repo, "111111", time.Minute)
	second := issue(t, repo, "222222", time.Minute)
	assert.NotEqual(t, first.ID, second.ID)

	challenges, err := repo.ListByMobile(ctx, testMobile)
	require.NoError(t, err)
	require.Len(t, challenges, 2)
	assert.False(t, challenges[0].Consumed, "newest challenge must stay active")
	assert.True(t, challenges[1].Consumed, "previous challenge must be consumed")
	assert.NotNil(t, challenges[1].ConsumedAt)

	ok, err := repo.Consume(ctx, testMobile, crypto.HashOTP(testMobile, "111111"))
	require.NoError(t, err)
	assert.False(t, ok, "superseded code must not verify")

	ok, err = repo.Consume(ctx, testMobile, crypto.HashOTP(testMobile, "222222"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPRepository_ConsumeOnce(t *testing.T) {
	repo := NewOTPRepository(testutil.NewDB(t))
	ctx := context.Background()
	hash := crypto.HashOTP(testMobile, "123456")

	issue(t, repo, "123456", time.Minute)

	ok, err := repo.Consume(ctx, testMobile, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Consume(ctx, testMobile, hash)
	require.NoError(t, err)
	assert.False(t, ok, "a consumed code must not verify twice")
}

func TestOTPRepository_ConsumeConcurrent(t *testing.T) {
	repo := NewOTPRepository(testutil.NewDB(t))
	hash := crypto.HashOTP(testMobile, "654321")
	issue(t, repo, "654321", time.Minute)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Consume(context.Background(), testMobile, hash)
			assert.NoError(t, err)
			if ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestOTPRepository_ConcurrentIssueLeavesOneActive(t *testing.T) {
	repo := NewOTPRepository(testutil.NewDB(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.Issue(ctx, &models.OTPChallenge{
				Mobile:    testMobile,
				CodeHash:  crypto.HashOTP(testMobile, fmt.Sprintf("%06d", i)),
				ExpiresAt: time.Now().UTC().Add(time.Minute),
			}))
		}(i)
	}
	wg.Wait()

	challenges, err := repo.ListByMobile(ctx, testMobile)
	require.NoError(t, err)
	require.Len(t, challenges, 8)

	active := 0
	for _, c := range challenges {
		if c.IsActive() {
			active++
		}
	}
	assert.Equal(t, 1, active)
	assert.NoError(t, lockMobile(repo.db, testMobile), "sqlite needs no explicit lock")
}

func TestOTPRepository_ConsumeRejects(t *testing.T) {
	repo := NewOTPRepository(testutil.NewDB(t))
	ctx := context.Background()

	issue(t, repo, "123456", -time.Second)

	ok, err := repo.Consume(ctx, testMobile, crypto.HashOTP(testMobile, "123456"))
	require.NoError(t, err)
	assert.False(t, ok, "expired code must not verify")

	issue(t, repo, "123456", time.Minute)

	ok, err = repo.Consume(ctx, testMobile, crypto.HashOTP(testMobile, "000000"))
	require.NoError(t, err)
	assert.False(t, ok, "wrong code must not verify")

	ok, err = repo.Consume(ctx, "8888888888", crypto.HashOTP("8888888888", "123456"))
	require.NoError(t, err)
	assert.False(t, ok, "code of another mobile must not verify")

	_, err = repo.Consume(ctx, "", "x")
	assert.Error(t, err)
}

func TestOTPRepository_Invalidate(t *testing.T) {
	repo := NewOTPRepository(testutil.NewDB(t))
	ctx := context.Background()

	c := issue(t, repo, "123456", time.Minute)
	require.NoError(t, repo.Invalidate(ctx, c.ID))

	ok, err := repo.Consume(ctx, testMobile, crypto.HashOTP(testMobile, "123456"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPRepository_LastByMobile(t *testing.T) {
	repo := NewOTPRepository(testutil.NewDB(t))
	ctx := context.Background()

	last, err := repo.LastByMobile(ctx, testMobile)
	require.NoError(t, err)
	assert.Nil(t, last)

	issue(t, repo, "111111", time.Minute)
	second := issue(t, repo, "222222", time.Minute)

	last, err = repo.LastByMobile(ctx, testMobile)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, second.ID, last.ID)
}

func TestOTPRepository_CleanupExpired(t *testing.T) {
	repo := NewOTPRepository(testutil.NewDB(t))
	ctx := context.Background()

	issue(t, repo, "111111", -time.Hour)
	issue(t, repo, "222222", time.Hour)

	deleted, err := repo.CleanupExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := repo.ListByMobile(ctx, testMobile)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
