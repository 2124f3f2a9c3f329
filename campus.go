package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"git.fiblab.net/sim/campusnav/router"
	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gopkg.in/yaml.v3"
)

const (
	mongoConnectTimeout = 10 * time.Second
	// mongo连接失败后的最长重试时间
	mongoRetryElapsed = 30 * time.Second
)

// 从yaml文件读取园区数据
func LoadCampusFile(path string) ([]router.FloorData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var campus router.CampusData
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&campus); err != nil {
		return nil, fmt.Errorf("decode campus %s: %w", path, err)
	}
	return campus.Floors, nil
}

// 连接mongo，失败时指数退避重试
func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	var client *mongo.Client
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = mongoRetryElapsed
	err := backoff.RetryNotify(func() error {
		ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
		defer cancel()
		c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := c.Ping(ctx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			return err
		}
		client = c
		return nil
	}, backoff.WithContext(bo, ctx), func(err error, d time.Duration) {
		log.Warnf("mongo not ready, retry in %v: %v", d, err)
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// 从mongo集合读取园区数据，每个文档是一层楼
func LoadCampusMongo(ctx context.Context, uri string, path *Path) ([]router.FloorData, error) {
	client, err := connectMongo(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(context.Background())

	return loadFloors(ctx, client.Database(path.GetDb()).Collection(path.GetColl()))
}

// 读取集合中的全部楼层，按楼栋与楼层排序
func loadFloors(ctx context.Context, coll *mongo.Collection) ([]router.FloorData, error) {
	ns := coll.Database().Name() + "." + coll.Name()
	opts := options.Find().SetSort(bson.D{{Key: "building", Value: 1}, {Key: "level", Value: 1}})
	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find floors in %s: %w", ns, err)
	}
	var floors []router.FloorData
	if err := cursor.All(ctx, &floors); err != nil {
		return nil, fmt.Errorf("decode floors in %s: %w", ns, err)
	}
	return floors, nil
}

// 按数据位置加载并构建router
func LoadCampus(ctx context.Context, mongoURI string, path *Path) (*router.Router, error) {
	if path == nil {
		return nil, fmt.Errorf("campus path is empty")
	}
	var (
		floors []router.FloorData
		err    error
	)
	if path.IsFile() {
		log.Infof("load campus from file %s", path)
		floors, err = LoadCampusFile(path.File)
	} else {
		log.Infof("load campus from mongo %s", path)
		floors, err = LoadCampusMongo(ctx, mongoURI, path)
	}
	if err != nil {
		return nil, err
	}
	return router.New(floors)
}
