//go:build integration

package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"verifyflow/pkg/testutil/containers"
)

type RedisTRLSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	trl   *RedisTRL
	ctx   context.Context
}

func TestRedisTRLSuite(t *testing.T) {
	suite.Run(t, new(RedisTRLSuite))
}

func (s *RedisTRLSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.GetManager().GetRedis(s.T())
	s.trl = NewRedisTRL(s.redis.Client)
}

func (s *RedisTRLSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisTRLSuite) TestRevocationExpires() {
	s.Require().NoError(s.trl.RevokeToken(s.ctx, "jti-live", 1*time.Second))

	revoked, err := s.trl.IsRevoked(s.ctx, "jti-live")
	s.Require().NoError(err)
	s.True(revoked)

	s.Eventually(func() bool {
		revoked, err := s.trl.IsRevoked(s.ctx, "jti-live")
		return err == nil && !revoked
	}, 5*time.Second, 100*time.Millisecond)
}
