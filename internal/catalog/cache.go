package catalog

import (
	"context"
	"encoding/json"

	"github.com/2beens/gymtracker/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte = 1024 * 1024
	// program details carry a live enrollment count, keep them short lived
	programCacheExpire  = 60
	exerciseCacheExpire = 10 * 60
)

// CachedRepo keeps recently read program details and exercises in an
// in-process cache. Every write invalidates what it could have touched.
type CachedRepo struct {
	catalogRepo
	cache *freecache.Cache
}

func NewCachedRepo(repo catalogRepo, sizeMB int) *CachedRepo {
	if sizeMB <= 0 {
		sizeMB = 16
	}
	return &CachedRepo{
		catalogRepo: repo,
		cache:       freecache.NewCache(sizeMB * megabyte),
	}
}

func programCacheKey(id uuid.UUID) []byte {
	return []byte("program::" + id.String())
}

func exerciseCacheKey(id uuid.UUID) []byte {
	return []byte("exercise::" + id.String())
}

func (c *CachedRepo) GetExercise(ctx context.Context, id uuid.UUID) (*Exercise, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.catalog.exercises.get")
	defer span.End()

	key := exerciseCacheKey(id)
	if exerciseBytes, err := c.cache.Get(key); err == nil {
		e := &Exercise{}
		if err := json.Unmarshal(exerciseBytes, e); err == nil {
			return e, nil
		} else {
			log.Errorf("failed to unmarshal exercise %s from cache: %s", id, err)
		}
	}

	e, err := c.catalogRepo.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(key, e, exerciseCacheExpire)
	return e, nil
}

func (c *CachedRepo) GetProgram(ctx context.Context, id uuid.UUID) (*ProgramDetail, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.catalog.programs.get")
	defer span.End()

	key := programCacheKey(id)
	if programBytes, err := c.cache.Get(key); err == nil {
		p := &ProgramDetail{}
		if err := json.Unmarshal(programBytes, p); err == nil {
			return p, nil
		} else {
			log.Errorf("failed to unmarshal program %s from cache: %s", id, err)
		}
	}

	p, err := c.catalogRepo.GetProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(key, p, programCacheExpire)
	return p, nil
}

func (c *CachedRepo) UpdateExercise(ctx context.Context, e Exercise) (*Exercise, error) {
	updated, err := c.catalogRepo.UpdateExercise(ctx, e)
	if err != nil {
		return nil, err
	}
	// program details embed exercises
	c.cache.Clear()
	return updated, nil
}

func (c *CachedRepo) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	if err := c.catalogRepo.DeleteExercise(ctx, id); err != nil {
		return err
	}
	c.cache.Clear()
	return nil
}

func (c *CachedRepo) UpdateProgram(ctx context.Context, p Program) (*Program, error) {
	updated, err := c.catalogRepo.UpdateProgram(ctx, p)
	if err != nil {
		return nil, err
	}
	c.cache.Del(programCacheKey(p.ID))
	return updated, nil
}

func (c *CachedRepo) DeleteProgram(ctx context.Context, id uuid.UUID) error {
	if err := c.catalogRepo.DeleteProgram(ctx, id); err != nil {
		return err
	}
	c.cache.Del(programCacheKey(id))
	return nil
}

func (c *CachedRepo) AddDay(ctx context.Context, day ProgramDay) (*ProgramDay, error) {
	added, err := c.catalogRepo.AddDay(ctx, day)
	if err != nil {
		return nil, err
	}
	c.cache.Del(programCacheKey(day.ProgramID))
	return added, nil
}

func (c *CachedRepo) AddDayExercise(ctx context.Context, de DayExercise) (*DayExercise, error) {
	added, err := c.catalogRepo.AddDayExercise(ctx, de)
	if err != nil {
		return nil, err
	}
	// the owning program is not known from the day id alone
	c.cache.Clear()
	return added, nil
}

func (c *CachedRepo) set(key []byte, v any, expireSeconds int) {
	valueBytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal %T for cache: %s", v, err)
		return
	}
	if err := c.cache.Set(key, valueBytes, expireSeconds); err != nil {
		log.Errorf("failed to write cache for %s: %s", key, err)
	}
}
