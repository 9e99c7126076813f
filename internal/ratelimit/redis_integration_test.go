//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"creditline/internal/ratelimit"
)

type RedisCheckerSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *goredis.Client
}

func TestRedisCheckerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCheckerSuite))
}

func (s *RedisCheckerSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	uri, err := container.ConnectionString(ctx)
	s.Require().NoError(err)

	opts, err := goredis.ParseURL(uri)
	s.Require().NoError(err)
	s.client = goredis.NewClient(opts)
	s.Require().NoError(s.client.Ping(ctx).Err())
}

func (s *RedisCheckerSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *RedisCheckerSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(context.Background()).Err())
}

func (s *RedisCheckerSuite) TestWindowCounting() {
	checker, err := ratelimit.NewRedis(s.client, ratelimit.Config{Requests: 3, Window: time.Minute})
	s.Require().NoError(err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := checker.Allow(ctx, "customer:a")
		s.Require().NoError(err)
		s.True(result.Allowed, "request %d", i+1)
	}

	result, err := checker.Allow(ctx, "customer:a")
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Greater(result.RetryAfter, time.Duration(0))
	s.LessOrEqual(result.RetryAfter, time.Minute)
}

func (s *RedisCheckerSuite) TestKeysAreIndependent() {
	checker, err := ratelimit.NewRedis(s.client, ratelimit.Config{Requests: 1, Window: time.Minute})
	s.Require().NoError(err)
	ctx := context.Background()

	first, err := checker.Allow(ctx, "customer:a")
	s.Require().NoError(err)
	s.True(first.Allowed)

	denied, err := checker.Allow(ctx, "customer:a")
	s.Require().NoError(err)
	s.False(denied.Allowed)

	other, err := checker.Allow(ctx, "customer:b")
	s.Require().NoError(err)
	s.True(other.Allowed)
}

func (s *RedisCheckerSuite) TestWindowExpires() {
	checker, err := ratelimit.NewRedis(s.client, ratelimit.Config{Requests: 1, Window: time.Second})
	s.Require().NoError(err)
	ctx := context.Background()

	first, err := checker.Allow(ctx, "customer:a")
	s.Require().NoError(err)
	s.True(first.Allowed)

	denied, err := checker.Allow(ctx, "customer:a")
	s.Require().NoError(err)
	s.False(denied.Allowed)

	time.Sleep(1100 * time.Millisecond)

	again, err := checker.Allow(ctx, "customer:a")
	s.Require().NoError(err)
	s.True(again.Allowed)
}
