// Package redis provides a go-redis client wrapper and a lifecycle component
// for named caches. A *Client satisfies container.CacheHandle; misses come
// back as NOT_FOUND AppErrors instead of redis.Nil.
package redis
