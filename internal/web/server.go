// Package web exposes the selection, generation, upload and edit endpoints.
// It is thin glue: each handler reads one snapshot, runs the in-memory
// pipeline and hands rows to the renderer.
package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MichalRonowski/APApp/internal"
	"github.com/MichalRonowski/APApp/internal/config"
	"github.com/MichalRonowski/APApp/internal/dataset"
	"github.com/MichalRonowski/APApp/internal/render"
	"github.com/MichalRonowski/APApp/internal/report"
	"github.com/MichalRonowski/APApp/internal/snapshot"
	"github.com/MichalRonowski/APApp/internal/storage"
)

type Server struct {
	cfg      config.Config
	store    *snapshot.Store
	db       *storage.DB
	renderer *render.Renderer
}

func NewServer(cfg config.Config, store *snapshot.Store, db *storage.DB) *Server {
	reportCfg := config.LoadReportConfig(cfg.ReportConfigPath)
	return &Server{
		cfg:      cfg,
		store:    store,
		db:       db,
		renderer: render.New(reportCfg, cfg.FontDir),
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	{
		api.GET("/sources", s.handleSources)
		api.POST("/generate", s.handleGenerate)
		api.GET("/reports", s.handleReports)
		api.POST("/upload", s.handleUpload)
		api.POST("/rows", s.handleRows)
		api.POST("/render", s.handleRender)
	}
	r.GET("/download/:name", s.handleDownload)

	return r
}

func (s *Server) Run() error {
	return s.Router().Run(s.cfg.HTTPAddr)
}

func (s *Server) handleSources(c *gin.Context) {
	snap := s.store.Current()

	type sourceInfo struct {
		SourceNo    string `json:"source_no"`
		DisplayName string `json:"display_name"`
	}
	out := make([]sourceInfo, 0, len(snap.Sources))
	for _, src := range snap.Sources {
		out = append(out, sourceInfo{SourceNo: src, DisplayName: snap.Customers.Display(src)})
	}
	c.JSON(http.StatusOK, gin.H{"sources": out})
}

type generateRequest struct {
	Sources []string `json:"sources" binding:"required"`
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Sources) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wybierz co najmniej jeden Nr źródła"})
		return
	}

	snap := s.store.Current()
	files, err := s.generateForSources(snap, req.Sources)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files, "count": len(files)})
}

func (s *Server) generateForSources(snap *snapshot.Snapshot, sources []string) ([]string, error) {
	records := snap.Table.FilterBySources(sources)
	docs, groups := dataset.GroupByDocument(records)

	files := make([]string, 0, len(docs))
	for _, docNo := range docs {
		docRecords := groups[docNo]
		rows := report.BuildRows(docRecords, snap.Table.HasDocType)
		header := report.InferHeader(docRecords)
		header.DocumentNo = docNo
		if len(docRecords) > 0 {
			if name, ok := snap.Customers[docRecords[0].SourceNo]; ok {
				header.CustomerName = name
			}
		}

		fileName := render.OutputFileName(docNo)
		outPath := filepath.Join(s.cfg.OutputDir, fileName)
		if err := s.renderer.Render(outPath, header, rows); err != nil {
			return nil, fmt.Errorf("document %s: %w", docNo, err)
		}

		sourceNo := ""
		if len(docRecords) > 0 {
			sourceNo = docRecords[0].SourceNo
		}
		if err := s.db.InsertReport(docNo, sourceNo, fileName, len(rows)); err != nil {
			slog.Warn("report journal insert failed", "doc", docNo, "err", err)
		}
		files = append(files, fileName)
	}
	return files, nil
}

func (s *Server) handleReports(c *gin.Context) {
	entries, err := s.db.ListRecentReports(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type reportInfo struct {
		DocNo     string `json:"doc_no"`
		SourceNo  string `json:"source_no"`
		FileName  string `json:"file_name"`
		RowCount  int    `json:"row_count"`
		CreatedAt string `json:"created_at"`
	}
	out := make([]reportInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, reportInfo{
			DocNo: e.DocNo, SourceNo: e.SourceNo, FileName: e.FileName,
			RowCount: e.RowCount, CreatedAt: e.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"reports": out})
}

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "brak pliku w żądaniu"})
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	storedName := uuid.NewString() + "_" + filepath.Base(file.Filename)
	storedPath := filepath.Join(s.cfg.UploadDir, storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	snap, err := s.store.Reload(storedPath)
	if err != nil {
		// Keep serving the previous snapshot; the bad file stays on disk
		// for inspection.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.db.InsertUpload(file.Filename, storedPath, len(snap.Table.Records)); err != nil {
		slog.Warn("upload journal insert failed", "file", file.Filename, "err", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"records": len(snap.Table.Records),
		"sources": len(snap.Sources),
	})
}

type rowsRequest struct {
	Source string `json:"source"`
	DocNo  string `json:"doc_no" binding:"required"`
}

func (s *Server) handleRows(c *gin.Context) {
	var req rowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := s.store.Current()
	records := snap.Table.Records
	if req.Source != "" {
		records = snap.Table.FilterBySources([]string{req.Source})
	}
	records = dataset.FilterByDocument(records, req.DocNo)
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "brak wierszy dla dokumentu " + req.DocNo})
		return
	}

	rows := report.BuildRows(records, snap.Table.HasDocType)
	header := report.InferHeader(records)
	header.DocumentNo = req.DocNo

	c.JSON(http.StatusOK, gin.H{
		"doc_no":   header.DocumentNo,
		"doc_date": header.DocumentDate,
		"rows":     report.ToPayloads(rows),
	})
}

type renderRequest struct {
	DocNo    string               `json:"doc_no" binding:"required"`
	DocDate  string               `json:"doc_date"`
	Customer string               `json:"customer"`
	Rows     []internal.RowPayload `json:"rows" binding:"required"`
}

func (s *Server) handleRender(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	header := internal.DocumentHeader{
		DocumentNo:   req.DocNo,
		DocumentDate: req.DocDate,
		CustomerName: req.Customer,
	}
	rows := report.FromPayloads(req.Rows)

	fileName := render.OutputFileName(req.DocNo)
	outPath := filepath.Join(s.cfg.OutputDir, fileName)
	if err := s.renderer.Render(outPath, header, rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := s.db.InsertReport(req.DocNo, "", fileName, len(rows)); err != nil {
		slog.Warn("report journal insert failed", "doc", req.DocNo, "err", err)
	}

	c.JSON(http.StatusOK, gin.H{"file": fileName})
}

func (s *Server) handleDownload(c *gin.Context) {
	name := filepath.Base(strings.TrimSpace(c.Param("name")))
	if name == "" || name == "." || name == ".." {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file name"})
		return
	}
	path := filepath.Join(s.cfg.OutputDir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	c.FileAttachment(path, name)
}
