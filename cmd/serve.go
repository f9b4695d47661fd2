package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"labscope/internal/storage"
	"labscope/pkg/database"
	"labscope/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve generated reports and run history over HTTP",
	Long: `Starts a small HTTP server exposing the analysis run history stored in
SQLite and the generated report files under the reports directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		if port == "" {
			port = cfg.Server.Port
		}

		db, err := database.Init(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		runs := storage.NewRunRepository(db)

		if cfg.LogLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		router := gin.Default()

		router.GET("/api/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		router.GET("/api/runs", func(c *gin.Context) {
			list, err := runs.List(50)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"runs": list})
		})

		router.GET("/api/runs/:id", func(c *gin.Context) {
			run, err := runs.GetByID(c.Param("id"))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if run == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
				return
			}
			c.JSON(http.StatusOK, run)
		})

		if _, err := os.Stat(cfg.Paths.ReportsDir); err == nil {
			router.StaticFS("/reports", http.Dir(cfg.Paths.ReportsDir))
		}

		logger.Infof("Server starting on port %s", port)
		return router.Run(":" + port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("port", "", "HTTP port (default from PORT)")
}
