package redisimpls

import (
	"context"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/libconfig/ut"
	"github.com/sgostarter/librecloser/report"
	"github.com/stretchr/testify/assert"
)

func utRedisClient(t *testing.T) *redis.Client {
	cfg := ut.SetupUTConfig4Redis(t)

	opts, err := redis.ParseURL(cfg.RedisDSN)
	assert.Nil(t, err)

	redisCli := redis.NewClient(opts)

	assert.Nil(t, redisCli.FlushDB(context.Background()).Err())

	return redisCli
}

func TestRedisStorage(t *testing.T) {
	s := NewRedisReportStorage("ut:", utRedisClient(t), nil)

	id1, err := s.Save(&report.Report{
		CreatedAt:  100,
		Downstream: report.Device{Name: "T65", Kind: "fuse"},
		Ranges:     []report.NamedRange{{Curve: "KYLE_A", PickupMin: 205, PickupMax: 400}},
	})
	assert.Nil(t, err)
	assert.NotZero(t, id1)

	_, err = s.Save(&report.Report{ID: id1, CreatedAt: 100})
	assert.Equal(t, commerr.ErrAlreadyExists, err)

	id2, err := s.Save(&report.Report{ID: 9, CreatedAt: 200})
	assert.Nil(t, err)
	assert.EqualValues(t, 9, id2)

	got, err := s.Get(id1)
	assert.Nil(t, err)
	assert.EqualValues(t, "T65", got.Downstream.Name)
	assert.Len(t, got.Ranges, 1)

	_, err = s.Get(1)
	assert.Equal(t, commerr.ErrNotFound, err)

	rs, err := s.List(0, 0)
	assert.Nil(t, err)
	assert.Len(t, rs, 2)
	assert.EqualValues(t, id1, rs[0].ID)

	rs, err = s.List(150, 250)
	assert.Nil(t, err)
	assert.Len(t, rs, 1)
	assert.EqualValues(t, 9, rs[0].ID)
}
