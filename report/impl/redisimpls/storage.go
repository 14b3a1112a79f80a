package redisimpls

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/godruoyi/go-snowflake"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/librecloser/report"
)

// NewRedisReportStorage keeps each report as a hash under preKey and indexes
// report IDs by creation time in a sorted set.
func NewRedisReportStorage(preKey string, redisCli *redis.Client, logger l.Wrapper) report.Storage {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "reportStorage"))

	if redisCli == nil {
		logger.Fatal("no redis client")
	}

	return &reportStorage{
		logger:   logger,
		preKey:   preKey,
		redisCli: redisCli,
	}
}

type reportStorage struct {
	logger   l.Wrapper
	preKey   string
	redisCli *redis.Client
}

func (impl *reportStorage) Save(r *report.Report) (id uint64, err error) {
	if r == nil {
		return 0, commerr.ErrInvalidArgument
	}

	id = r.ID
	if id == 0 {
		id = snowflake.ID()
	}

	saved := *r
	saved.ID = id

	d, err := json.Marshal(&saved)
	if err != nil {
		return 0, err
	}

	err = saveReportScript.Run(context.Background(), impl.redisCli, []string{impl.reportKey(id),
		impl.reportCreatedAtKey()}, id, d, saved.CreatedAt).Err()
	if err != nil {
		if strings.Contains(err.Error(), replyIDExists) {
			err = commerr.ErrAlreadyExists
		}

		return 0, err
	}

	return
}

func (impl *reportStorage) Get(id uint64) (r *report.Report, err error) {
	d, err := impl.redisCli.HGet(context.Background(), impl.reportKey(id), "data").Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = commerr.ErrNotFound
		}

		return
	}

	r = new(report.Report)

	err = json.Unmarshal(d, r)
	if err != nil {
		r = nil
	}

	return
}

func (impl *reportStorage) List(createdAtStart, createdAtFinish int64) (rs []*report.Report, err error) {
	var minS, maxS string

	if createdAtStart <= 0 {
		minS = "-inf"
	} else {
		minS = strconv.FormatInt(createdAtStart, 10)
	}

	if createdAtFinish <= 0 {
		maxS = "+inf"
	} else {
		maxS = strconv.FormatInt(createdAtFinish, 10)
	}

	idSs, err := impl.redisCli.ZRangeByScore(context.Background(), impl.reportCreatedAtKey(), &redis.ZRangeBy{
		Min: minS,
		Max: maxS,
	}).Result()
	if err != nil {
		return
	}

	rs = make([]*report.Report, 0, len(idSs))

	for _, s := range idSs {
		id, e := strconv.ParseUint(s, 10, 64)
		if e != nil {
			impl.logger.WithFields(l.ErrorField(e), l.StringField("id", s)).
				Error("invalid report id on created_at table")

			continue
		}

		r, e := impl.Get(id)
		if e != nil {
			if errors.Is(e, commerr.ErrNotFound) {
				continue
			}

			err = e

			return
		}

		rs = append(rs, r)
	}

	return
}

func (impl *reportStorage) reportKey(id uint64) string {
	return impl.preKey + "report:" + strconv.FormatUint(id, 10)
}

func (impl *reportStorage) reportCreatedAtKey() string {
	return impl.preKey + "reports:created_at"
}
