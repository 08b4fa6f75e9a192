package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/linkpuzzle/internal/repository"
)

// KeyValueSuite runs the behaviour every repository.KeyValueStore backend
// must share. NewStore builds a fresh, empty store for each test.
type KeyValueSuite struct {
	suite.Suite
	NewStore func() repository.KeyValueStore
	store    repository.KeyValueStore
}

func (s *KeyValueSuite) SetupTest() {
	s.store = s.NewStore()
}

func (s *KeyValueSuite) TestGet_Missing() {
	v, found, err := s.store.Get(context.Background(), "absent")
	s.Require().NoError(err)
	s.Assert().False(found)
	s.Assert().Nil(v)
}

func (s *KeyValueSuite) TestSetAndGet() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "linkpuzzle:progress", []byte(`{"day_index":3}`)))

	v, found, err := s.store.Get(ctx, "linkpuzzle:progress")
	s.Require().NoError(err)
	s.Assert().True(found)
	s.Assert().JSONEq(`{"day_index":3}`, string(v))
}

func (s *KeyValueSuite) TestSet_Overwrites() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "k", []byte("first")))
	s.Require().NoError(s.store.Set(ctx, "k", []byte("second")))

	v, _, err := s.store.Get(ctx, "k")
	s.Require().NoError(err)
	s.Assert().Equal("second", string(v))
}

func (s *KeyValueSuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "k", []byte("v")))
	s.Require().NoError(s.store.Delete(ctx, "k"))

	_, found, err := s.store.Get(ctx, "k")
	s.Require().NoError(err)
	s.Assert().False(found)

	s.Assert().NoError(s.store.Delete(ctx, "never-set"))
}

func (s *KeyValueSuite) TestKeysAreIndependent() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "linkpuzzle:progress", []byte("p")))
	s.Require().NoError(s.store.Set(ctx, "linkpuzzle:stats", []byte("s")))

	p, _, err := s.store.Get(ctx, "linkpuzzle:progress")
	s.Require().NoError(err)
	st, _, err := s.store.Get(ctx, "linkpuzzle:stats")
	s.Require().NoError(err)
	s.Assert().Equal("p", string(p))
	s.Assert().Equal("s", string(st))
}

func (s *KeyValueSuite) TestReturnedBytesAreCopies() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "k", []byte("abc")))

	v, _, err := s.store.Get(ctx, "k")
	s.Require().NoError(err)
	v[0] = 'z'

	again, _, err := s.store.Get(ctx, "k")
	s.Require().NoError(err)
	s.Assert().Equal("abc", string(again))
}
