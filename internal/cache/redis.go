package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shop-backend/internal/model"

	"github.com/go-redis/redis/v8"
)

const productListKey = "products:all"

// ErrMiss 缓存未命中
var ErrMiss = errors.New("cache miss")

type Client struct {
	rdb        *redis.Client
	productTTL time.Duration
}

// NewClient 连接 redis 并检查连通性
func NewClient(addr, password string, db int, productTTL time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, err
	}

	return &Client{rdb: rdb, productTTL: productTTL}, nil
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return data, err
}

func (c *Client) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// GetProducts 读取缓存的商品列表
func (c *Client) GetProducts(ctx context.Context) ([]model.Product, error) {
	data, err := c.Get(ctx, productListKey)
	if err != nil {
		return nil, err
	}
	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SetProducts 缓存商品列表
func (c *Client) SetProducts(ctx context.Context, products []model.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.Set(ctx, productListKey, data, c.productTTL)
}

// InvalidateProducts 商品变更后清除列表缓存
func (c *Client) InvalidateProducts(ctx context.Context) error {
	return c.Delete(ctx, productListKey)
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
