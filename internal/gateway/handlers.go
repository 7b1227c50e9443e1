package gateway

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/salesgateway/internal/ports"
)

// 許可するクエリパラメータ。
var (
	paginationQuery      = []string{"page", "limit"}
	orderPaginationQuery = []string{"page", "limit", "status"}
)

// writeReply はバックエンドのリプライを加工せずにJSONとして返す。
// リプライが空の場合はボディを書き込まない。
func writeReply(c *gin.Context, status int, reply json.RawMessage) {
	if len(bytes.TrimSpace(reply)) == 0 || bytes.Equal(reply, []byte("null")) {
		c.Status(status)
		return
	}
	c.Data(status, "application/json; charset=utf-8", reply)
}

// handleRegister はユーザー登録のハンドラ。
func (s *Server) handleRegister(c *gin.Context) error {
	var req ports.RegisterUser
	if err := s.validate.BindJSON(c, &req); err != nil {
		return err
	}

	reply, err := s.services.Auth.Register(c.Request.Context(), req)
	if err != nil {
		s.log.AuthEvent(c.Request.Context(), "register", req.Email, false, err.Error())
		return err
	}
	s.log.AuthEvent(c.Request.Context(), "register", req.Email, true, "")
	writeReply(c, http.StatusCreated, reply)
	return nil
}

// handleLogin はログインのハンドラ。
func (s *Server) handleLogin(c *gin.Context) error {
	var req ports.LoginUser
	if err := s.validate.BindJSON(c, &req); err != nil {
		return err
	}

	reply, err := s.services.Auth.Login(c.Request.Context(), req)
	if err != nil {
		s.log.AuthEvent(c.Request.Context(), "login", req.Email, false, err.Error())
		return err
	}
	s.log.AuthEvent(c.Request.Context(), "login", req.Email, true, "")
	writeReply(c, http.StatusCreated, reply)
	return nil
}

// handleVerify はガードが検証したユーザーとトークンを返す。
func (s *Server) handleVerify(c *gin.Context, session Session) error {
	c.JSON(http.StatusOK, ports.VerifyResult{
		User:  &session.Identity,
		Token: session.Token,
	})
	return nil
}

// handleCreateProduct は商品作成のハンドラ。
func (s *Server) handleCreateProduct(c *gin.Context, _ Session) error {
	var req ports.CreateProduct
	if err := s.validate.BindJSON(c, &req); err != nil {
		return err
	}

	reply, err := s.services.Products.CreateProduct(c.Request.Context(), req)
	if err != nil {
		return err
	}
	writeReply(c, http.StatusCreated, reply)
	return nil
}

// handleFindAllProducts は商品一覧のハンドラ。
func (s *Server) handleFindAllProducts(c *gin.Context) error {
	page := ports.DefaultPagination()
	if err := s.validate.BindQuery(c, &page, paginationQuery...); err != nil {
		return err
	}

	reply, err := s.services.Products.FindAllProducts(c.Request.Context(), page)
	if err != nil {
		return err
	}
	writeReply(c, http.StatusOK, reply)
	return nil
}

// handleFindOneProduct は商品取得のハンドラ。
func (s *Server) handleFindOneProduct(c *gin.Context) error {
	id := c.Param("id")
	if err := s.validate.UUID(id); err != nil {
		return err
	}

	reply, err := s.services.Products.FindOneProduct(c.Request.Context(), id)
	if err != nil {
		return err
	}
	writeReply(c, http.StatusOK, reply)
	return nil
}

// handleUpdateProduct は商品更新のハンドラ。
func (s *Server) handleUpdateProduct(c *gin.Context, _ Session) error {
	id := c.Param("id")
	if err := s.validate.UUID(id); err != nil {
		return err
	}
	var req ports.UpdateProduct
	if err := s.validate.BindJSON(c, &req); err != nil {
		return err
	}

	reply, err := s.services.Products.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		return err
	}
	writeReply(c, http.StatusOK, reply)
	return nil
}

// handleDeleteProduct は商品削除のハンドラ。成功時はボディを返さない。
func (s *Server) handleDeleteProduct(c *gin.Context, _ Session) error {
	id := c.Param("id")
	if err := s.validate.UUID(id); err != nil {
		return err
	}

	if _, err := s.services.Products.DeleteProduct(c.Request.Context(), id); err != nil {
		return err
	}
	c.Status(http.StatusNoContent)
	return nil
}

// handleCreateOrder は注文作成のハンドラ。
func (s *Server) handleCreateOrder(c *gin.Context, _ Session) error {
	var req ports.CreateOrder
	if err := s.validate.BindJSON(c, &req); err != nil {
		return err
	}

	reply, err := s.services.Orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		return err
	}
	writeReply(c, http.StatusCreated, reply)
	return nil
}

// handleFindAllOrders は注文一覧のハンドラ。statusクエリで絞り込める。
func (s *Server) handleFindAllOrders(c *gin.Context, _ Session) error {
	query := ports.OrderPagination{Pagination: ports.DefaultPagination()}
	if err := s.validate.BindQuery(c, &query, orderPaginationQuery...); err != nil {
		return err
	}

	reply, err := s.services.Orders.FindAllOrders(c.Request.Context(), query)
	if err != nil {
		return err
	}
	writeReply(c, http.StatusOK, reply)
	return nil
}

// handleFindOneOrder は注文取得のハンドラ。
func (s *Server) handleFindOneOrder(c *gin.Context, _ Session) error {
	id := c.Param("id")
	if err := s.validate.UUID(id); err != nil {
		return err
	}

	reply, err := s.services.Orders.FindOneOrder(c.Request.Context(), id)
	if err != nil {
		return err
	}
	writeReply(c, http.StatusOK, reply)
	return nil
}

// handleFindOrdersByStatus はパスで指定した状態の注文一覧のハンドラ。
func (s *Server) handleFindOrdersByStatus(c *gin.Context, _ Session) error {
	status := c.Param("status")
	if err := s.validate.OrderStatus(status); err != nil {
		return err
	}
	page := ports.DefaultPagination()
	if err := s.validate.BindQuery(c, &page, paginationQuery...); err != nil {
		return err
	}

	reply, err := s.services.Orders.FindAllOrders(c.Request.Context(), ports.OrderPagination{
		Pagination: page,
		Status:     ports.OrderStatus(status),
	})
	if err != nil {
		return err
	}
	writeReply(c, http.StatusOK, reply)
	return nil
}

// handleChangeOrderStatus は注文状態変更のハンドラ。
func (s *Server) handleChangeOrderStatus(c *gin.Context, _ Session) error {
	id := c.Param("id")
	if err := s.validate.UUID(id); err != nil {
		return err
	}
	var req ports.ChangeOrderStatus
	if err := s.validate.BindJSON(c, &req); err != nil {
		return err
	}

	reply, err := s.services.Orders.ChangeOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		return err
	}
	writeReply(c, http.StatusOK, reply)
	return nil
}
