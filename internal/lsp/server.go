package lsp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/protocol"

	"github.com/tangzhangming/skylark/internal/i18n"
	"github.com/tangzhangming/skylark/internal/pkg"
)

// version 服务器版本号
const version = "0.1.0"

// Server 语言服务器
//
// 通过标准输入输出 (stdio) 与编辑器通信，消息按 LSP 基础
// 协议分帧（Content-Length 头 + JSON 体）。职责是在文档打开
// 和修改时解析内容并推送语法诊断。
type Server struct {
	docManager *DocumentManager
	logger     *Logger
	config     *pkg.Config

	workspaceRoot string

	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex // 序列化消息写出

	initialized bool
	shutdown    bool
}

// NewServer 创建语言服务器
func NewServer(logPath string) *Server {
	logger := NewLogger(logPath)
	config := pkg.DefaultConfig()

	s := &Server{
		logger: logger,
		config: config,
		reader: bufio.NewReader(os.Stdin),
		writer: os.Stdout,
	}
	s.docManager = NewDocumentManager(logger, config.Parser.MaxFileSize)

	return s
}

// Run 启动服务器主循环
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("skylark language server v%s started (debug=%v)", version, s.logger.IsEnabled())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("client disconnected")
				return nil
			}
			s.logger.Error("error reading message: %v", err)
			continue
		}

		s.handleMessage(msg)

		if s.shutdown {
			s.logger.Info("server shutdown")
			s.logger.Close()
			return nil
		}
	}
}

// readMessage 读取一条 LSP 消息
func (s *Server) readMessage() ([]byte, error) {
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)

		if line == "" {
			// 头部结束
			break
		}

		if strings.HasPrefix(line, "Content-Length:") {
			lengthStr := strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
			contentLength, err = strconv.Atoi(lengthStr)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %s", lengthStr)
			}
		}
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	content := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, content); err != nil {
		return nil, err
	}

	s.logger.Debug("received message: %d bytes", contentLength)
	return content, nil
}

// sendMessage 发送一条 LSP 消息
func (s *Server) sendMessage(msg interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(content))

	if _, err := s.writer.Write([]byte(header)); err != nil {
		return err
	}
	_, err = s.writer.Write(content)
	return err
}

// handleMessage 分发收到的消息
func (s *Server) handleMessage(msg []byte) {
	var baseMsg struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id,omitempty"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	if err := json.Unmarshal(msg, &baseMsg); err != nil {
		s.logger.Error("error parsing message: %v", err)
		return
	}

	s.logger.Debug("handling method: %s", baseMsg.Method)

	switch baseMsg.Method {
	case "initialize":
		s.handleInitialize(baseMsg.ID, baseMsg.Params)
	case "initialized":
		s.handleInitialized()
	case "shutdown":
		s.handleShutdown(baseMsg.ID)
	case "exit":
		s.handleExit()
	case "textDocument/didOpen":
		s.handleDidOpen(baseMsg.Params)
	case "textDocument/didChange":
		s.handleDidChange(baseMsg.Params)
	case "textDocument/didClose":
		s.handleDidClose(baseMsg.Params)
	case "textDocument/didSave":
		s.handleDidSave(baseMsg.Params)
	default:
		s.logger.Debug("unhandled method: %s", baseMsg.Method)
		if baseMsg.ID != nil {
			s.sendError(baseMsg.ID, -32601, "Method not found: "+baseMsg.Method)
		}
	}
}

// handleInitialize 处理初始化请求
//
// 读取工作区根目录，并尝试加载工作区的 skylark.toml，
// 决定诊断信息的语言和文件大小上限。
func (s *Server) handleInitialize(id json.RawMessage, params json.RawMessage) {
	var initParams protocol.InitializeParams
	if err := json.Unmarshal(params, &initParams); err != nil {
		s.sendError(id, -32700, "Parse error")
		return
	}

	if initParams.RootURI != "" {
		s.workspaceRoot = uriToPath(string(initParams.RootURI))
		s.loadWorkspaceConfig()
	}

	s.logger.Info("initialize: workspace=%s", s.workspaceRoot)

	result := map[string]interface{}{
		"capabilities": map[string]interface{}{
			// 文档同步：完整同步
			"textDocumentSync": map[string]interface{}{
				"openClose": true,
				"change":    1, // Full sync
				"save": map[string]interface{}{
					"includeText": true,
				},
			},
		},
		"serverInfo": map[string]interface{}{
			"name":    "skylark-ls",
			"version": version,
		},
	}

	s.sendResult(id, result)
}

// loadWorkspaceConfig 加载工作区配置并套用
func (s *Server) loadWorkspaceConfig() {
	config, err := pkg.FindConfig(s.workspaceRoot)
	if err != nil {
		s.logger.Error("error loading workspace config: %v", err)
		return
	}

	s.config = config
	s.docManager.maxSize = config.Parser.MaxFileSize
	i18n.SetLanguageFromString(config.Parser.Language)

	s.logger.Info("workspace config: language=%s max_file_size=%d",
		config.Parser.Language, config.Parser.MaxFileSize)
}

func (s *Server) handleInitialized() {
	s.initialized = true
	s.logger.Info("server initialized")
}

func (s *Server) handleShutdown(id json.RawMessage) {
	s.logger.Info("shutdown requested")
	s.sendResult(id, nil)
}

func (s *Server) handleExit() {
	s.shutdown = true
	s.logger.Info("exit notification received")
}

// handleDidOpen 处理文档打开
func (s *Server) handleDidOpen(params json.RawMessage) {
	var p protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Error("error parsing didOpen params: %v", err)
		return
	}

	docURI := string(p.TextDocument.URI)
	doc := s.docManager.Open(docURI, p.TextDocument.Text, int(p.TextDocument.Version))
	s.publishDiagnostics(doc)
}

// handleDidChange 处理文档变更
func (s *Server) handleDidChange(params json.RawMessage) {
	var p protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Error("error parsing didChange params: %v", err)
		return
	}

	docURI := string(p.TextDocument.URI)

	// 完整同步：使用第一个变更的文本内容
	if len(p.ContentChanges) > 0 {
		newContent := p.ContentChanges[0].Text
		doc := s.docManager.Update(docURI, newContent, int(p.TextDocument.Version))
		if doc != nil {
			s.publishDiagnostics(doc)
		}
	}
}

// handleDidClose 处理文档关闭
func (s *Server) handleDidClose(params json.RawMessage) {
	var p protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Error("error parsing didClose params: %v", err)
		return
	}

	docURI := string(p.TextDocument.URI)
	s.docManager.Close(docURI)

	// 清空已关闭文档的诊断
	s.sendMessage(map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentURI(docURI),
			Diagnostics: []protocol.Diagnostic{},
		},
	})
}

// handleDidSave 处理文档保存
func (s *Server) handleDidSave(params json.RawMessage) {
	var p protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Error("error parsing didSave params: %v", err)
		return
	}

	docURI := string(p.TextDocument.URI)
	s.logger.Debug("document saved: %s", docURI)

	if p.Text != "" {
		doc := s.docManager.Get(docURI)
		if doc != nil {
			doc = s.docManager.Update(docURI, p.Text, doc.Version+1)
			if doc != nil {
				s.publishDiagnostics(doc)
			}
		}
	}
}

// publishDiagnostics 解析文档并推送诊断
func (s *Server) publishDiagnostics(doc *Document) {
	_, parseErr := doc.Parse()
	diags := diagnosticsFor(parseErr)

	s.logger.Debug("publishing %d diagnostics for %s", len(diags), doc.URI)

	s.sendMessage(map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentURI(doc.URI),
			Diagnostics: diags,
			Version:     uint32(doc.Version),
		},
	})
}

// sendResult 发送成功响应
func (s *Server) sendResult(id json.RawMessage, result interface{}) {
	s.sendMessage(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
}

// sendError 发送错误响应
func (s *Server) sendError(id json.RawMessage, code int, message string) {
	s.sendMessage(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	})
}
