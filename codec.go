package main

import (
	"encoding/json"
)

// 接口消息是普通结构体而不是protobuf，用json编解码替换connect默认的"json"编码
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		// connect允许空消息体
		return nil
	}
	return json.Unmarshal(data, msg)
}
