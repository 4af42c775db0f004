package domain

import "encoding/json"

// InitializeParams are the client-proposed inputs for initialize.
type InitializeParams struct {
	ProtocolVersion string          `json:"protocolVersion,omitempty"`
	Capabilities    json.RawMessage `json:"capabilities,omitempty"`
	ClientInfo      json.RawMessage `json:"clientInfo,omitempty"`
}

// InitializeResult is the response to initialize.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

// ServerCapabilities is the fixed capability descriptor of the gateway.
type ServerCapabilities struct {
	Resources map[string]any `json:"resources"`
	Tools     map[string]any `json:"tools"`
}

// ServerInfo identifies the gateway implementation.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolDescriptor describes one invocable tool in tools/list output.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ListToolsResult is the response to tools/list.
type ListToolsResult struct {
	Tools []ToolDescriptor `json:"tools"`
}

// ResourceDescriptor describes one resource in resources/list output.
type ResourceDescriptor struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MIMEType    string `json:"mimeType"`
}

// ListResourcesResult is the response to resources/list.
type ListResourcesResult struct {
	Resources []ResourceDescriptor `json:"resources"`
}

// ReadResourceParams are the inputs for resources/read.
type ReadResourceParams struct {
	URI string `json:"uri"`
}

// ResourceContents is one content item in resources/read output.
type ResourceContents struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text"`
}

// ReadResourceResult is the response to resources/read.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

// CallToolParams are the inputs for tools/call.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ToolContent is one content item in a tool result.
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallToolResult is the response to tools/call. Tool-level failures are
// legitimate results flagged IsError, not protocol errors: the calling agent
// should see them as text it can reason about.
type CallToolResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// TextResult wraps text in a successful tool result.
func TextResult(text string) *CallToolResult {
	return &CallToolResult{
		Content: []ToolContent{{Type: "text", Text: text}},
	}
}

// ErrorResult wraps text in a failed tool result.
func ErrorResult(text string) *CallToolResult {
	return &CallToolResult{
		Content: []ToolContent{{Type: "text", Text: text}},
		IsError: true,
	}
}
