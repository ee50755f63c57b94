/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package engine

import (
	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/utils/json"
	"gopkg.in/yaml.v3"
)

// JsonParser Json
type JsonParser struct {
}

var _ types.Parser = (*JsonParser)(nil)

// DecodeNodeDef 通过json解析节点定义
func (p *JsonParser) DecodeNodeDef(dsl []byte) (types.NodeDef, error) {
	var def types.NodeDef
	if len(dsl) == 0 {
		return def, types.ErrDslEmpty
	}
	err := json.Unmarshal(dsl, &def)
	return def, err
}

// EncodeNodeDef 把节点定义转成格式化的json
func (p *JsonParser) EncodeNodeDef(def types.NodeDef) ([]byte, error) {
	if v, err := json.Marshal(def); err != nil {
		return nil, err
	} else {
		//格式化Json
		return json.Format(v)
	}
}

// YamlParser Yaml
type YamlParser struct {
}

var _ types.Parser = (*YamlParser)(nil)

// DecodeNodeDef 通过yaml解析节点定义
func (p *YamlParser) DecodeNodeDef(dsl []byte) (types.NodeDef, error) {
	var def types.NodeDef
	if len(dsl) == 0 {
		return def, types.ErrDslEmpty
	}
	err := yaml.Unmarshal(dsl, &def)
	return def, err
}

func (p *YamlParser) EncodeNodeDef(def types.NodeDef) ([]byte, error) {
	return yaml.Marshal(def)
}

// ParserFor returns the parser matching a file extension, json by default.
func ParserFor(ext string) types.Parser {
	switch ext {
	case ".yaml", ".yml":
		return &YamlParser{}
	default:
		return &JsonParser{}
	}
}
