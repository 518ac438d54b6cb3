package lsp

import (
	"sync"

	"github.com/tangzhangming/skylark"
	"github.com/tangzhangming/skylark/ast"
)

// Document 表示一个打开的文档
type Document struct {
	URI     string
	Content string
	Version int
	Lines   []string

	// 延迟解析的结果
	module   *ast.Module
	parseErr error
	parsed   bool
	mu       sync.Mutex

	maxSize int
}

// Parse 获取文档的语法树和解析错误（延迟解析，带缓存）
//
// 超过大小上限的文档不解析，返回 (nil, nil)。
func (d *Document) Parse() (*ast.Module, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.parsed {
		if d.maxSize > 0 && len(d.Content) > d.maxSize {
			d.module = nil
			d.parseErr = nil
		} else {
			d.module, d.parseErr = skylark.ParseModule(uriToPath(d.URI), d.Content)
		}
		d.parsed = true
	}
	return d.module, d.parseErr
}

// Invalidate 标记文档需要重新解析
func (d *Document) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.parsed = false
	d.module = nil
	d.parseErr = nil
}

// DocumentManager 文档管理器
//
// 缓存有限数量的打开文档，按 LRU 淘汰。
type DocumentManager struct {
	docs      map[string]*Document // URI -> Document
	openOrder []string             // LRU 顺序（最近使用的在最后）
	maxDocs   int
	maxSize   int // 单个文档的解析大小上限
	mu        sync.Mutex
	logger    *Logger
}

// NewDocumentManager 创建文档管理器
func NewDocumentManager(logger *Logger, maxSize int) *DocumentManager {
	return &DocumentManager{
		docs:      make(map[string]*Document),
		openOrder: make([]string, 0, 10),
		maxDocs:   32,
		maxSize:   maxSize,
		logger:    logger,
	}
}

// Open 打开文档
func (dm *DocumentManager) Open(uri, content string, version int) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	// 已打开则只更新内容
	if doc, exists := dm.docs[uri]; exists {
		doc.Content = content
		doc.Version = version
		doc.Lines = SplitLines(content)
		doc.Invalidate()
		dm.updateLRU(uri)
		dm.logger.Debug("document updated: %s (version %d)", uri, version)
		return doc
	}

	if len(dm.docs) >= dm.maxDocs {
		dm.evictOldest()
	}

	doc := &Document{
		URI:     uri,
		Content: content,
		Version: version,
		Lines:   SplitLines(content),
		maxSize: dm.maxSize,
	}

	dm.docs[uri] = doc
	dm.openOrder = append(dm.openOrder, uri)
	dm.logger.Debug("document opened: %s (version %d, %d bytes)", uri, version, len(content))

	return doc
}

// Update 更新文档内容
func (dm *DocumentManager) Update(uri, content string, version int) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, exists := dm.docs[uri]
	if !exists {
		return nil
	}

	doc.Content = content
	doc.Version = version
	doc.Lines = SplitLines(content)
	doc.Invalidate()
	dm.updateLRU(uri)

	dm.logger.Debug("document content updated: %s (version %d)", uri, version)
	return doc
}

// Close 关闭文档
func (dm *DocumentManager) Close(uri string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, exists := dm.docs[uri]
	if !exists {
		return
	}

	delete(dm.docs, uri)
	for i, u := range dm.openOrder {
		if u == uri {
			dm.openOrder = append(dm.openOrder[:i], dm.openOrder[i+1:]...)
			break
		}
	}

	doc.Invalidate()
	doc.Lines = nil
	doc.Content = ""

	dm.logger.Debug("document closed: %s (remaining: %d)", uri, len(dm.docs))
}

// Get 获取文档
func (dm *DocumentManager) Get(uri string) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, exists := dm.docs[uri]
	if !exists {
		return nil
	}

	dm.updateLRU(uri)
	return doc
}

// Count 返回当前打开的文档数量
func (dm *DocumentManager) Count() int {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return len(dm.docs)
}

// updateLRU 更新 LRU 顺序（调用者需持有锁）
func (dm *DocumentManager) updateLRU(uri string) {
	for i, u := range dm.openOrder {
		if u == uri {
			dm.openOrder = append(dm.openOrder[:i], dm.openOrder[i+1:]...)
			break
		}
	}
	dm.openOrder = append(dm.openOrder, uri)
}

// evictOldest 淘汰最旧的文档（调用者需持有锁）
func (dm *DocumentManager) evictOldest() {
	if len(dm.openOrder) == 0 {
		return
	}

	oldestURI := dm.openOrder[0]
	doc := dm.docs[oldestURI]

	delete(dm.docs, oldestURI)
	dm.openOrder = dm.openOrder[1:]

	if doc != nil {
		doc.Invalidate()
		doc.Lines = nil
		doc.Content = ""
	}

	dm.logger.Info("evicted oldest document (LRU): %s", oldestURI)
}
