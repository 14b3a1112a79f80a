package fmstorage

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/godruoyi/go-snowflake"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/stg"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/sgostarter/libeasygo/stg/mwf"
	"github.com/sgostarter/librecloser/report"
)

func NewFMStorage(root string, storage stg.FileStorage) report.Storage {
	return NewFMStorageEx(root, storage, "reports.json", false)
}

func NewFMStorageEx(root string, storage stg.FileStorage, fileName string, prettySerial bool) report.Storage {
	if storage == nil {
		storage = rawfs.NewFSStorage("")
	}

	return &fmStorageImpl{
		reportStorage: mwf.NewMemWithFile[map[uint64]*report.Report, mwf.Serial, mwf.Lock](
			make(map[uint64]*report.Report), &mwf.JSONSerial{
				MarshalIndent: prettySerial,
			}, &sync.RWMutex{}, filepath.Join(root, fileName), storage),
	}
}

type fmStorageImpl struct {
	reportStorage *mwf.MemWithFile[map[uint64]*report.Report, mwf.Serial, mwf.Lock]
}

func (impl *fmStorageImpl) Save(r *report.Report) (id uint64, err error) {
	if r == nil {
		return 0, commerr.ErrInvalidArgument
	}

	id = r.ID
	if id == 0 {
		id = snowflake.ID()
	}

	saved := *r
	saved.ID = id
	saved.Ranges = append([]report.NamedRange(nil), r.Ranges...)

	err = impl.reportStorage.Change(func(oldD map[uint64]*report.Report) (map[uint64]*report.Report, error) {
		if len(oldD) == 0 {
			oldD = make(map[uint64]*report.Report)
		}

		if _, ok := oldD[id]; ok {
			return nil, commerr.ErrAlreadyExists
		}

		oldD[id] = &saved

		return oldD, nil
	})
	if err != nil {
		id = 0
	}

	return
}

func (impl *fmStorageImpl) Get(id uint64) (r *report.Report, err error) {
	impl.reportStorage.Read(func(d map[uint64]*report.Report) {
		saved, ok := d[id]
		if !ok {
			err = commerr.ErrNotFound

			return
		}

		r = cloneReport(saved)
	})

	return
}

func (impl *fmStorageImpl) List(createdAtStart, createdAtFinish int64) (rs []*report.Report, err error) {
	impl.reportStorage.Read(func(d map[uint64]*report.Report) {
		for _, saved := range d {
			if createdAtStart > 0 && saved.CreatedAt < createdAtStart {
				continue
			}

			if createdAtFinish > 0 && saved.CreatedAt > createdAtFinish {
				continue
			}

			rs = append(rs, cloneReport(saved))
		}
	})

	sort.Slice(rs, func(i, j int) bool {
		if rs[i].CreatedAt != rs[j].CreatedAt {
			return rs[i].CreatedAt < rs[j].CreatedAt
		}

		return rs[i].ID < rs[j].ID
	})

	return
}

func cloneReport(r *report.Report) *report.Report {
	c := *r
	c.Ranges = append([]report.NamedRange(nil), r.Ranges...)

	return &c
}
